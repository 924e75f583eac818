package ledger

import (
	"fmt"
	"strings"
	"time"

	"defter-backend/internal/auth"
	"defter-backend/internal/cache"
	"defter-backend/internal/database"
	"defter-backend/internal/logger"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreateTypeRequest struct {
	Name string `json:"name"`
}

type UpdateTypeRequest struct {
	Name *string `json:"name"`
}

type TypeResponse struct {
	ID          uint            `json:"id"`
	Kind        string          `json:"kind"`
	Name        string          `json:"name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

type CreateEntryRequest struct {
	TypeID      uint            `json:"type_id"`
	Date        string          `json:"date"` // "2025-12-09"
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type UpdateEntryRequest struct {
	TypeID      *uint            `json:"type_id"`
	Date        *string          `json:"date"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
}

type EntryResponse struct {
	ID            uint            `json:"id"`
	TypeID        uint            `json:"type_id"`
	Kind          string          `json:"kind"`
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	IsFromSavings bool            `json:"is_from_savings"`
	SavingsTypeID *uint           `json:"savings_type_id,omitempty"`
	TypeTotal     decimal.Decimal `json:"type_total"`
	CreatedAt     string          `json:"created_at"`
}

type KindSummaryResponse struct {
	Kind       string          `json:"kind"`
	TypeCount  int             `json:"type_count"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// -------------------------
// Yardımcılar
// -------------------------

func parseKind(c *fiber.Ctx) (models.LedgerKind, error) {
	kind, ok := models.ParseLedgerKind(c.Params("kind"))
	if !ok {
		return "", fiber.NewError(fiber.StatusBadRequest, "kind 'savings', 'income', 'payable' veya 'lent' olmalı")
	}
	return kind, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
	}
	return d, nil
}

// Pozitif tutar şartı birikim dışındaki türlerde geçerli; birikim
// kayıtları düşüm olarak negatif yazılabiliyor.
func validateAmount(kind models.LedgerKind, amount decimal.Decimal) error {
	if amount.IsZero() {
		return fiber.NewError(fiber.StatusBadRequest, "amount 0 olamaz")
	}
	if kind != models.LedgerKindSavings && amount.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "amount 0'dan büyük olmalı")
	}
	return nil
}

func typesCacheKey(kind models.LedgerKind, ownerID uint) string {
	return fmt.Sprintf("ledger:types:%s:%d", kind, ownerID)
}

func typeToResponse(lt models.LedgerType) TypeResponse {
	return TypeResponse{
		ID:          lt.ID,
		Kind:        string(lt.Kind),
		Name:        lt.Name,
		TotalAmount: lt.TotalAmount,
		CreatedAt:   lt.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   lt.UpdatedAt.Format(time.RFC3339),
	}
}

func entryToResponse(e models.LedgerEntry, typeTotal decimal.Decimal) EntryResponse {
	return EntryResponse{
		ID:            e.ID,
		TypeID:        e.TypeID,
		Kind:          string(e.Kind),
		Date:          e.Date.Format("2006-01-02"),
		Amount:        e.Amount,
		Description:   e.Description,
		IsFromSavings: e.IsFromSavings,
		SavingsTypeID: e.SavingsTypeID,
		TypeTotal:     typeTotal,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}

// Sahiplik + tür kontrolü: başka kullanıcının türü 404 görünür.
func findOwnedType(kind models.LedgerKind, ownerID uint, typeID uint) (*models.LedgerType, error) {
	var lt models.LedgerType
	if err := database.DB.
		Where("id = ? AND owner_id = ? AND kind = ?", typeID, ownerID, kind).
		First(&lt).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Tür bulunamadı")
	}
	return &lt, nil
}

// -------------------------
// Tür CRUD
// -------------------------

// POST /api/ledgers/:kind/types
func CreateTypeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := parseKind(c)
		if err != nil {
			return err
		}
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateTypeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name zorunlu")
		}

		var count int64
		database.DB.Model(&models.LedgerType{}).
			Where("owner_id = ? AND kind = ? AND name = ?", ownerID, kind, body.Name).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir tür zaten var")
		}

		lt := models.LedgerType{
			OwnerID:     ownerID,
			Kind:        kind,
			Name:        body.Name,
			TotalAmount: decimal.Zero,
		}

		if err := database.DB.Create(&lt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tür oluşturulamadı")
		}

		cache.Remove(typesCacheKey(kind, ownerID))

		return c.Status(fiber.StatusCreated).JSON(typeToResponse(lt))
	}
}

// GET /api/ledgers/:kind/types
func ListTypesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := parseKind(c)
		if err != nil {
			return err
		}
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		key := typesCacheKey(kind, ownerID)
		var cached []TypeResponse
		if ok, _ := cache.GetObject(key, &cached); ok {
			return c.JSON(cached)
		}

		var types []models.LedgerType
		if err := database.DB.
			Where("owner_id = ? AND kind = ?", ownerID, kind).
			Order("name asc").
			Find(&types).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Türler listelenemedi")
		}

		resp := make([]TypeResponse, 0, len(types))
		for _, lt := range types {
			resp = append(resp, typeToResponse(lt))
		}

		cache.SetObject(key, resp, cache.ListTTL)

		return c.JSON(resp)
	}
}

// PUT /api/ledgers/:kind/types/:id
func UpdateTypeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := parseKind(c)
		if err != nil {
			return err
		}
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		lt, err := findOwnedType(kind, ownerID, id)
		if err != nil {
			return err
		}

		var body UpdateTypeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name == nil {
			return c.JSON(typeToResponse(*lt))
		}

		name := strings.TrimSpace(*body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name boş olamaz")
		}

		var count int64
		database.DB.Model(&models.LedgerType{}).
			Where("owner_id = ? AND kind = ? AND name = ? AND id <> ?", ownerID, kind, name, lt.ID).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir tür zaten var")
		}

		lt.Name = name
		if err := database.DB.Save(lt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tür güncellenemedi")
		}

		cache.Remove(typesCacheKey(kind, ownerID))

		return c.JSON(typeToResponse(*lt))
	}
}

// DELETE /api/ledgers/:kind/types/:id
// Türle birlikte tüm kayıtları da silinir; artık hiçbir kayıt sorgulanamaz.
func DeleteTypeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := parseKind(c)
		if err != nil {
			return err
		}
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		lt, err := findOwnedType(kind, ownerID, id)
		if err != nil {
			return err
		}

		if err := database.DB.Where("type_id = ?", lt.ID).Delete(&models.LedgerEntry{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıtlar silinemedi")
		}

		if err := database.DB.Delete(lt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tür silinemedi")
		}

		cache.Remove(typesCacheKey(kind, ownerID))

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/ledgers/:kind/summary
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := parseKind(c)
		if err != nil {
			return err
		}
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var types []models.LedgerType
		if err := database.DB.
			Where("owner_id = ? AND kind = ?", ownerID, kind).
			Find(&types).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}

		grand := decimal.Zero
		for _, lt := range types {
			grand = grand.Add(lt.TotalAmount)
		}

		return c.JSON(KindSummaryResponse{
			Kind:       string(kind),
			TypeCount:  len(types),
			GrandTotal: grand,
		})
	}
}

// -------------------------
// Kayıt CRUD
// -------------------------

// POST /api/ledgers/:kind/entries
func CreateEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := parseKind(c)
		if err != nil {
			return err
		}
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.TypeID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "type_id zorunlu")
		}
		if err := validateAmount(kind, body.Amount); err != nil {
			return err
		}

		d, err := parseDate(body.Date)
		if err != nil {
			return err
		}

		lt, err := findOwnedType(kind, ownerID, body.TypeID)
		if err != nil {
			return err
		}

		entry := models.LedgerEntry{
			TypeID:      lt.ID,
			Kind:        kind,
			OwnerID:     ownerID,
			Date:        d,
			Amount:      body.Amount,
			Description: strings.TrimSpace(body.Description),
		}

		if err := database.DB.Create(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıt oluşturulamadı")
		}

		total, err := RecomputeTotal(database.DB, lt.ID)
		if err != nil {
			// Kayıt yazıldı ama toplam güncellenemedi; toplam bayat kalır
			logger.LogError("ledger", "CreateEntryHandler", "recompute", fiber.Map{"type_id": lt.ID}, err)
			total = lt.TotalAmount
		}

		cache.Remove(typesCacheKey(kind, ownerID))

		return c.Status(fiber.StatusCreated).JSON(entryToResponse(entry, total))
	}
}

// GET /api/ledgers/:kind/entries?type_id=...
func ListEntriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := parseKind(c)
		if err != nil {
			return err
		}
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.LedgerEntry{}).
			Where("owner_id = ? AND kind = ?", ownerID, kind)

		if tidStr := c.Query("type_id"); tidStr != "" {
			var tid uint
			if _, err := fmt.Sscan(tidStr, &tid); err != nil || tid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "type_id geçersiz")
			}
			dbq = dbq.Where("type_id = ?", tid)
		}

		var entries []models.LedgerEntry
		if err := dbq.Order("date desc, id desc").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıtlar listelenemedi")
		}

		resp := make([]EntryResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, entryToResponse(e, decimal.Zero))
		}

		return c.JSON(resp)
	}
}

// PUT /api/ledgers/:kind/entries/:id
// Tür değişiyorsa hem eski hem yeni türün toplamı yeniden hesaplanır.
func UpdateEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := parseKind(c)
		if err != nil {
			return err
		}
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var entry models.LedgerEntry
		if err := database.DB.
			Where("id = ? AND owner_id = ? AND kind = ?", id, ownerID, kind).
			First(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
		}

		var body UpdateEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		oldTypeID := entry.TypeID

		if body.TypeID != nil && *body.TypeID != entry.TypeID {
			newType, err := findOwnedType(kind, ownerID, *body.TypeID)
			if err != nil {
				return err
			}
			entry.TypeID = newType.ID
		}

		if body.Amount != nil {
			if err := validateAmount(kind, *body.Amount); err != nil {
				return err
			}
			entry.Amount = *body.Amount
		}

		if body.Date != nil {
			d, err := parseDate(*body.Date)
			if err != nil {
				return err
			}
			entry.Date = d
		}

		if body.Description != nil {
			entry.Description = strings.TrimSpace(*body.Description)
		}

		if err := database.DB.Save(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıt güncellenemedi")
		}

		if oldTypeID != entry.TypeID {
			if _, err := RecomputeTotal(database.DB, oldTypeID); err != nil {
				logger.LogError("ledger", "UpdateEntryHandler", "recompute-old", fiber.Map{"type_id": oldTypeID}, err)
			}
		}
		total, err := RecomputeTotal(database.DB, entry.TypeID)
		if err != nil {
			logger.LogError("ledger", "UpdateEntryHandler", "recompute-new", fiber.Map{"type_id": entry.TypeID}, err)
		}

		cache.Remove(typesCacheKey(kind, ownerID))

		return c.JSON(entryToResponse(entry, total))
	}
}

// DELETE /api/ledgers/:kind/entries/:id
func DeleteEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := parseKind(c)
		if err != nil {
			return err
		}
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var entry models.LedgerEntry
		if err := database.DB.
			Where("id = ? AND owner_id = ? AND kind = ?", id, ownerID, kind).
			First(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
		}

		if err := database.DB.Delete(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıt silinemedi")
		}

		if _, err := RecomputeTotal(database.DB, entry.TypeID); err != nil {
			logger.LogError("ledger", "DeleteEntryHandler", "recompute", fiber.Map{"type_id": entry.TypeID}, err)
		}

		cache.Remove(typesCacheKey(kind, ownerID))

		return c.SendStatus(fiber.StatusNoContent)
	}
}
