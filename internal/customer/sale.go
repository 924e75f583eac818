package customer

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

type SaleItemRequest struct {
	ProductID uint            `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type RecordSaleRequest struct {
	SaleType       string            `json:"sale_type"` // "cash" veya "credit"
	Items          []SaleItemRequest `json:"items"`
	TotalPrice     decimal.Decimal   `json:"total_price"`
	PaymentMethod  string            `json:"payment_method"`
	AmountReceived decimal.Decimal   `json:"amount_received"`
	UpdatedCredit  *decimal.Decimal  `json:"updated_credit"` // Client'ın hesapladığı yeni bakiye
	Date           string            `json:"date"`
}

type SaleItemResponse struct {
	ProductID uint            `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type SaleResponse struct {
	ID             uint               `json:"id"`
	CustomerID     uint               `json:"customer_id"`
	SaleType       string             `json:"sale_type"`
	Items          []SaleItemResponse `json:"items"`
	TotalPrice     decimal.Decimal    `json:"total_price"`
	PaymentMethod  string             `json:"payment_method"`
	AmountReceived decimal.Decimal    `json:"amount_received"`
	Date           string             `json:"date"`
	CreatedAt      string             `json:"created_at"`
}

type RecordSaleResponse struct {
	Sale     SaleResponse     `json:"sale"`
	Customer CustomerResponse `json:"customer"`
}

type PaginatedSalesResponse struct {
	Items   []SaleResponse `json:"items"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

func saleToResponse(s models.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return SaleResponse{
		ID:             s.ID,
		CustomerID:     s.CustomerID,
		SaleType:       s.SaleType,
		Items:          items,
		TotalPrice:     s.TotalPrice,
		PaymentMethod:  s.PaymentMethod,
		AmountReceived: s.AmountReceived,
		Date:           s.Date.Format("2006-01-02"),
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
}

func pageParams(c *fiber.Ctx) (page int, perPage int) {
	page, perPage = 1, 20
	if v := c.QueryInt("page"); v > 0 {
		page = v
	}
	if v := c.QueryInt("per_page"); v > 0 && v <= 100 {
		perPage = v
	}
	return page, perPage
}

// POST /api/customers/:id/sales
//
// Satış bağımsız Sale kaydı olarak yazılır, ardından müşteri üzerine
// denormalize özet eklenir; credit ve last_purchase client'ın verdiği
// değerlerle güncellenir. Son adımda last_purchase, satış listesindeki
// en büyük tarihle karşılaştırılıp gerekiyorsa düzeltilir — client'a
// güvenilmez ama düzeltme yazmadan önce değil, yazdıktan sonra yapılır
// (kaynak sistemin davranışı).
func RecordSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		cu, err := findOwnedCustomer(ownerID, c.Params("id"))
		if err != nil {
			return err
		}

		var body RecordSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if !body.TotalPrice.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "total_price 0'dan büyük olmalı")
		}
		if body.AmountReceived.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "amount_received negatif olamaz")
		}

		d, err := parseDate(body.Date)
		if err != nil {
			return err
		}

		items := make([]models.SaleItem, 0, len(body.Items))
		for _, it := range body.Items {
			if it.ProductID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "items içinde product_id zorunlu")
			}
			if !it.Quantity.IsPositive() {
				return fiber.NewError(fiber.StatusBadRequest, "items içinde quantity 0'dan büyük olmalı")
			}
			items = append(items, models.SaleItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Price,
			})
		}

		sale := models.Sale{
			OwnerID:        ownerID,
			CustomerID:     cu.ID,
			SaleType:       strings.TrimSpace(body.SaleType),
			TotalPrice:     body.TotalPrice,
			PaymentMethod:  strings.TrimSpace(body.PaymentMethod),
			AmountReceived: body.AmountReceived,
			Date:           d,
			Items:          items,
		}

		if err := database.DB.Create(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satış kaydedilemedi")
		}

		summary := models.CustomerSale{
			CustomerID:     cu.ID,
			SaleID:         sale.ID,
			SaleType:       sale.SaleType,
			TotalPrice:     sale.TotalPrice,
			PaymentMethod:  sale.PaymentMethod,
			AmountReceived: sale.AmountReceived,
			Date:           sale.Date,
		}
		if err := database.DB.Create(&summary).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satış özeti müşteriye eklenemedi")
		}

		// Client updated_credit vermişse onu yaz, vermemişse toplam
		// tutar veresiyeye eklenir
		newCredit := cu.Credit.Add(sale.TotalPrice)
		if body.UpdatedCredit != nil {
			newCredit = *body.UpdatedCredit
		}

		if err := database.DB.Model(&models.Customer{}).
			Where("id = ?", cu.ID).
			Updates(map[string]interface{}{
				"credit":        newCredit,
				"last_purchase": d,
			}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri güncellenemedi")
		}

		// Doğrulama turu: last_purchase gerçekten max(date) mi?
		if err := reconcileLastPurchase(cu.ID); err != nil {
			logger.LogError("customer", "RecordSaleHandler", "reconcile", fiber.Map{"customer_id": cu.ID}, err)
		}

		cache.Remove(listCacheKey(ownerID))

		var fresh models.Customer
		if err := database.DB.Preload("Sales").First(&fresh, cu.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri yüklenemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(RecordSaleResponse{
			Sale:     saleToResponse(sale),
			Customer: customerToResponse(fresh),
		})
	}
}

// GET /api/customers/:id/sales?page=1&per_page=20
func ListCustomerSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		cu, err := findOwnedCustomer(ownerID, c.Params("id"))
		if err != nil {
			return err
		}

		page, perPage := pageParams(c)

		var total int64
		database.DB.Model(&models.Sale{}).
			Where("customer_id = ?", cu.ID).
			Count(&total)

		var sales []models.Sale
		if err := database.DB.
			Where("customer_id = ?", cu.ID).
			Preload("Items").
			Order("date desc, id desc").
			Limit(perPage).
			Offset((page - 1) * perPage).
			Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satışlar listelenemedi")
		}

		items := make([]SaleResponse, 0, len(sales))
		for _, s := range sales {
			items = append(items, saleToResponse(s))
		}

		return c.JSON(PaginatedSalesResponse{
			Items:   items,
			Total:   total,
			Page:    page,
			PerPage: perPage,
		})
	}
}

// GET /api/sales?page=1&per_page=20
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		page, perPage := pageParams(c)

		var total int64
		database.DB.Model(&models.Sale{}).
			Where("owner_id = ?", ownerID).
			Count(&total)

		var sales []models.Sale
		if err := database.DB.
			Where("owner_id = ?", ownerID).
			Preload("Items").
			Order("date desc, id desc").
			Limit(perPage).
			Offset((page - 1) * perPage).
			Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satışlar listelenemedi")
		}

		items := make([]SaleResponse, 0, len(sales))
		for _, s := range sales {
			items = append(items, saleToResponse(s))
		}

		return c.JSON(PaginatedSalesResponse{
			Items:   items,
			Total:   total,
			Page:    page,
			PerPage: perPage,
		})
	}
}

// DELETE /api/sales/:id
// Bağımsız Sale kaydını siler. Müşteri üzerindeki denormalize özet
// bilinçli olarak yerinde bırakılır (kaynak sistemde cascade yok).
func DeleteSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var sale models.Sale
		if err := database.DB.
			Where("id = ? AND owner_id = ?", id, ownerID).
			First(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Satış bulunamadı")
		}

		if err := auth.ReauthenticateFromBody(c); err != nil {
			return err
		}

		database.DB.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{})

		if err := database.DB.Delete(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satış silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
