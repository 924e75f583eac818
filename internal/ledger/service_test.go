package ledger

import (
	"testing"
	"time"

	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	database.DB = db
	return db
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createType(t *testing.T, db *gorm.DB, kind models.LedgerKind, name string) *models.LedgerType {
	t.Helper()
	lt := &models.LedgerType{
		OwnerID:     1,
		Kind:        kind,
		Name:        name,
		TotalAmount: decimal.Zero,
	}
	require.NoError(t, db.Create(lt).Error)
	return lt
}

func createEntry(t *testing.T, db *gorm.DB, lt *models.LedgerType, date string, amount string) *models.LedgerEntry {
	t.Helper()
	e := &models.LedgerEntry{
		TypeID:  lt.ID,
		Kind:    lt.Kind,
		OwnerID: lt.OwnerID,
		Date:    mustDate(t, date),
		Amount:  dec(amount),
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

func TestCurrentTotal_SumsAllEntries(t *testing.T) {
	db := setupTestDB(t)
	lt := createType(t, db, models.LedgerKindSavings, "Acil Durum Fonu")

	createEntry(t, db, lt, "2025-01-10", "500")
	createEntry(t, db, lt, "2025-01-15", "-200")
	createEntry(t, db, lt, "2025-02-01", "75.50")

	total, err := CurrentTotal(db, lt.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("375.50")), "beklenen 375.50, gelen %s", total)
}

func TestCurrentTotal_EmptyTypeIsZero(t *testing.T) {
	db := setupTestDB(t)
	lt := createType(t, db, models.LedgerKindIncome, "Maaş")

	total, err := CurrentTotal(db, lt.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestRecomputeTotal_WritesBackToType(t *testing.T) {
	db := setupTestDB(t)
	lt := createType(t, db, models.LedgerKindSavings, "Birikim")

	createEntry(t, db, lt, "2025-03-01", "1000")
	createEntry(t, db, lt, "2025-03-05", "-400")

	total, err := RecomputeTotal(db, lt.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("600")))

	var stored models.LedgerType
	require.NoError(t, db.First(&stored, lt.ID).Error)
	assert.True(t, stored.TotalAmount.Equal(dec("600")))
}

// Toplam negatife düşebilir; yeniden hesaplama işaret kontrolü yapmaz.
func TestRecomputeTotal_NegativeTotalAllowed(t *testing.T) {
	db := setupTestDB(t)
	lt := createType(t, db, models.LedgerKindSavings, "Birikim")

	first := createEntry(t, db, lt, "2025-04-01", "500")
	createEntry(t, db, lt, "2025-04-02", "-200")
	_, err := RecomputeTotal(db, lt.ID)
	require.NoError(t, err)

	// 500'lük kayıt silinince geriye sadece -200 kalır
	require.NoError(t, db.Delete(first).Error)

	total, err := RecomputeTotal(db, lt.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("-200")))

	var stored models.LedgerType
	require.NoError(t, db.First(&stored, lt.ID).Error)
	assert.True(t, stored.TotalAmount.Equal(dec("-200")))
}

func TestRecomputeTotal_MissingTypeReturnsError(t *testing.T) {
	db := setupTestDB(t)

	_, err := RecomputeTotal(db, 9999)
	assert.Error(t, err)
}
