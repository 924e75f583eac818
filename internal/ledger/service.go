package ledger

import (
	"defter-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CurrentTotal - Türe bağlı tüm kayıtları taze bir taramayla toplar.
// Cache'lenmiş total_amount alanına bakmaz.
func CurrentTotal(db *gorm.DB, typeID uint) (decimal.Decimal, error) {
	var entries []models.LedgerEntry
	if err := db.Where("type_id = ?", typeID).Find(&entries).Error; err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total, nil
}

// RecomputeTotal - Türün total_amount alanını kayıtların toplamıyla
// yeniden yazar. Her kayıt create/update/delete işleminden sonra
// çağrılır; artımlı delta yok, her seferinde tam tarama.
// Tür bulunamazsa kayıt mutasyonu geçerli kalır, toplam eski haliyle
// kalır; çağıran taraf hatayı loglar.
func RecomputeTotal(db *gorm.DB, typeID uint) (decimal.Decimal, error) {
	total, err := CurrentTotal(db, typeID)
	if err != nil {
		return decimal.Zero, err
	}

	var lt models.LedgerType
	if err := db.First(&lt, "id = ?", typeID).Error; err != nil {
		return decimal.Zero, err
	}

	if err := db.Model(&models.LedgerType{}).
		Where("id = ?", lt.ID).
		Update("total_amount", total).Error; err != nil {
		return decimal.Zero, err
	}

	return total, nil
}
