package expense

import (
	"fmt"
	"strings"
	"time"

	"defter-backend/internal/auth"
	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreateExpenseRequest struct {
	CategoryID  uint            `json:"category_id"`
	Date        string          `json:"date"` // "2025-12-09"
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type UpdateExpenseRequest struct {
	CategoryID  *uint            `json:"category_id"`
	Date        *string          `json:"date"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
}

type ExpenseResponse struct {
	ID          uint            `json:"id"`
	CategoryID  uint            `json:"category_id"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"created_at"`
}

type MonthlySummaryItem struct {
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
}

type MonthlySummaryResponse struct {
	Year       int                  `json:"year"`
	Month      int                  `json:"month"`
	Items      []MonthlySummaryItem `json:"items"`
	GrandTotal decimal.Decimal      `json:"grand_total"`
}

// -------------------------
// Yardımcılar
// -------------------------

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
	}
	return d, nil
}

func expenseToResponse(e models.Expense, categoryName string) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		CategoryID:  e.CategoryID,
		Category:    categoryName,
		Date:        e.Date.Format("2006-01-02"),
		Amount:      e.Amount,
		Description: e.Description,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}

// -------------------------
// Gider CRUD
// -------------------------

// POST /api/expenses
func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.CategoryID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "category_id zorunlu")
		}
		if !body.Amount.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "amount 0'dan büyük olmalı")
		}

		d, err := parseDate(body.Date)
		if err != nil {
			return err
		}

		var cat models.Category
		if err := database.DB.First(&cat, "id = ?", body.CategoryID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		e := models.Expense{
			OwnerID:     ownerID,
			CategoryID:  cat.ID,
			Date:        d,
			Amount:      body.Amount,
			Description: strings.TrimSpace(body.Description),
		}

		if err := database.DB.Create(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider kaydedilemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(expenseToResponse(e, cat.Name))
	}
}

// GET /api/expenses?category_id=...
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Expense{}).
			Where("owner_id = ?", ownerID)

		if cidStr := c.Query("category_id"); cidStr != "" {
			var cid uint
			if _, err := fmt.Sscan(cidStr, &cid); err != nil || cid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "category_id geçersiz")
			}
			dbq = dbq.Where("category_id = ?", cid)
		}

		var expenses []models.Expense
		if err := dbq.Preload("Category").Order("date desc, id desc").Find(&expenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Giderler listelenemedi")
		}

		resp := make([]ExpenseResponse, 0, len(expenses))
		for _, e := range expenses {
			resp = append(resp, expenseToResponse(e, e.Category.Name))
		}

		return c.JSON(resp)
	}
}

// PUT /api/expenses/:id
func UpdateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var e models.Expense
		if err := database.DB.
			Where("id = ? AND owner_id = ?", id, ownerID).
			First(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Gider bulunamadı")
		}

		var body UpdateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.CategoryID != nil {
			var cat models.Category
			if err := database.DB.First(&cat, "id = ?", *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
			}
			e.CategoryID = cat.ID
		}

		if body.Amount != nil {
			if !body.Amount.IsPositive() {
				return fiber.NewError(fiber.StatusBadRequest, "amount 0'dan büyük olmalı")
			}
			e.Amount = *body.Amount
		}

		if body.Date != nil {
			d, err := parseDate(*body.Date)
			if err != nil {
				return err
			}
			e.Date = d
		}

		if body.Description != nil {
			e.Description = strings.TrimSpace(*body.Description)
		}

		if err := database.DB.Save(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider güncellenemedi")
		}

		var cat models.Category
		database.DB.First(&cat, "id = ?", e.CategoryID)

		return c.JSON(expenseToResponse(e, cat.Name))
	}
}

// DELETE /api/expenses/:id
func DeleteExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var e models.Expense
		if err := database.DB.
			Where("id = ? AND owner_id = ?", id, ownerID).
			First(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Gider bulunamadı")
		}

		if err := database.DB.Delete(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/expenses/summary/monthly?year=2025&month=12
func MonthlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		yearStr := c.Query("year")
		monthStr := c.Query("month")
		if yearStr == "" || monthStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "year ve month zorunlu")
		}

		var year, month int
		if _, err := fmt.Sscan(yearStr, &year); err != nil || year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "year geçersiz")
		}
		if _, err := fmt.Sscan(monthStr, &month); err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month geçersiz")
		}

		// Tarihler gün hassasiyetinde UTC tutuluyor; ay penceresi de öyle
		firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		nextMonth := firstDay.AddDate(0, 1, 0)

		var expenses []models.Expense
		if err := database.DB.
			Where("owner_id = ? AND date >= ? AND date < ?", ownerID, firstDay, nextMonth).
			Preload("Category").
			Find(&expenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}

		totals := make(map[uint]*MonthlySummaryItem)
		order := make([]uint, 0)
		grand := decimal.Zero

		for _, e := range expenses {
			item, ok := totals[e.CategoryID]
			if !ok {
				item = &MonthlySummaryItem{
					CategoryID:   e.CategoryID,
					CategoryName: e.Category.Name,
					Total:        decimal.Zero,
				}
				totals[e.CategoryID] = item
				order = append(order, e.CategoryID)
			}
			item.Total = item.Total.Add(e.Amount)
			grand = grand.Add(e.Amount)
		}

		items := make([]MonthlySummaryItem, 0, len(order))
		for _, cid := range order {
			items = append(items, *totals[cid])
		}

		return c.JSON(MonthlySummaryResponse{
			Year:       year,
			Month:      month,
			Items:      items,
			GrandTotal: grand,
		})
	}
}
