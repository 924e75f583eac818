package ledger

import (
	"strings"

	"defter-backend/internal/auth"
	"defter-backend/internal/cache"
	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type IncomeFromSavingsRequest struct {
	IncomeTypeID  uint            `json:"income_type_id"`
	SavingsTypeID uint            `json:"savings_type_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Description   string          `json:"description"`
}

type IncomeFromSavingsResponse struct {
	Entry        EntryResponse   `json:"entry"`
	IncomeTotal  decimal.Decimal `json:"income_total"`
	SavingsTotal decimal.Decimal `json:"savings_total"`
}

// POST /api/ledgers/income/from-savings
//
// Birikimden gelir aktarımı: birikim tarafına negatif bir düşüm kaydı,
// gelir tarafına işaretli bir gelir kaydı yazılır. Bakiye kontrolü
// cache'lenmiş toplam üzerinden değil taze taramayla yapılır. İki kayıt
// ve iki yeniden hesaplama tek transaction içinde koşar; yarım kalmış
// bir aktarım kullanıcıya görünür para hareketi olurdu.
func IncomeFromSavingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body IncomeFromSavingsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.IncomeTypeID == 0 || body.SavingsTypeID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "income_type_id ve savings_type_id zorunlu")
		}
		if !body.Amount.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "amount 0'dan büyük olmalı")
		}

		d, err := parseDate(body.Date)
		if err != nil {
			return err
		}

		incomeType, err := findOwnedType(models.LedgerKindIncome, ownerID, body.IncomeTypeID)
		if err != nil {
			return err
		}
		savingsType, err := findOwnedType(models.LedgerKindSavings, ownerID, body.SavingsTypeID)
		if err != nil {
			return err
		}

		var incomeEntry models.LedgerEntry
		var incomeTotal, savingsTotal decimal.Decimal

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			balance, err := CurrentTotal(tx, savingsType.ID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Birikim bakiyesi hesaplanamadı")
			}
			if balance.LessThan(body.Amount) {
				// UI bu mesajı diğer 400'lerden ayrı ele alıyor
				return fiber.NewError(fiber.StatusBadRequest, "Yetersiz birikim bakiyesi")
			}

			deduction := models.LedgerEntry{
				TypeID:      savingsType.ID,
				Kind:        models.LedgerKindSavings,
				OwnerID:     ownerID,
				Date:        d,
				Amount:      body.Amount.Neg(), // Düşüm: satır güncellemesi değil, telafi kaydı
				Description: "Gelire aktarım: " + incomeType.Name,
			}
			if err := tx.Create(&deduction).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Birikim düşüm kaydı oluşturulamadı")
			}

			savingsID := savingsType.ID
			incomeEntry = models.LedgerEntry{
				TypeID:        incomeType.ID,
				Kind:          models.LedgerKindIncome,
				OwnerID:       ownerID,
				Date:          d,
				Amount:        body.Amount,
				Description:   strings.TrimSpace(body.Description),
				IsFromSavings: true,
				SavingsTypeID: &savingsID,
			}
			if err := tx.Create(&incomeEntry).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gelir kaydı oluşturulamadı")
			}

			if savingsTotal, err = RecomputeTotal(tx, savingsType.ID); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Birikim toplamı güncellenemedi")
			}
			if incomeTotal, err = RecomputeTotal(tx, incomeType.ID); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gelir toplamı güncellenemedi")
			}

			return nil
		})
		if txErr != nil {
			return txErr
		}

		cache.Remove(
			typesCacheKey(models.LedgerKindIncome, ownerID),
			typesCacheKey(models.LedgerKindSavings, ownerID),
		)

		return c.Status(fiber.StatusCreated).JSON(IncomeFromSavingsResponse{
			Entry:        entryToResponse(incomeEntry, incomeTotal),
			IncomeTotal:  incomeTotal,
			SavingsTotal: savingsTotal,
		})
	}
}
