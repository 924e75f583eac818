package customer

import (
	"testing"
	"time"

	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileAllCustomers_FixesStaleLastPurchase(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp()

	stale := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newest := time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)

	cu := models.Customer{
		OwnerID:      1,
		Name:         "Ahmet",
		Credit:       decimal.Zero,
		JoinDate:     stale,
		LastPurchase: &stale,
	}
	require.NoError(t, db.Create(&cu).Error)

	require.NoError(t, db.Create(&models.CustomerSale{
		CustomerID: cu.ID,
		SaleID:     1,
		SaleType:   "cash",
		TotalPrice: decimal.RequireFromString("100"),
		Date:       time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
	}).Error)
	require.NoError(t, db.Create(&models.CustomerSale{
		CustomerID: cu.ID,
		SaleID:     2,
		SaleType:   "cash",
		TotalPrice: decimal.RequireFromString("200"),
		Date:       newest,
	}).Error)

	resp := doJSON(t, app, "POST", "/api/maintenance/reconcile-customers", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]int
	decodeBody(t, resp, &body)
	assert.Equal(t, 1, body["checked"])
	assert.Equal(t, 1, body["fixed"])

	var fresh models.Customer
	require.NoError(t, database.DB.First(&fresh, cu.ID).Error)
	require.NotNil(t, fresh.LastPurchase)
	assert.Equal(t, "2025-07-20", fresh.LastPurchase.Format("2006-01-02"))
}

// Satışı olmayan müşteriye dokunulmaz.
func TestReconcileAllCustomers_SkipsCustomersWithoutSales(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp()

	cu := models.Customer{OwnerID: 1, Name: "Yeni Müşteri", Credit: decimal.Zero, JoinDate: time.Now()}
	require.NoError(t, db.Create(&cu).Error)

	resp := doJSON(t, app, "POST", "/api/maintenance/reconcile-customers", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]int
	decodeBody(t, resp, &body)
	assert.Equal(t, 1, body["checked"])
	assert.Equal(t, 0, body["fixed"])

	var fresh models.Customer
	require.NoError(t, database.DB.First(&fresh, cu.ID).Error)
	assert.Nil(t, fresh.LastPurchase)
}
