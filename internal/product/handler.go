package product

import (
	"fmt"
	"strings"
	"time"

	"defter-backend/internal/auth"
	"defter-backend/internal/cache"
	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const listCacheKey = "products:list"

// -------------------------
// Request/Response Types
// -------------------------

type CreateProductRequest struct {
	ProductName  string          `json:"product_name"`
	PricePerPack decimal.Decimal `json:"price_per_pack"`
	KgsPerPack   decimal.Decimal `json:"kgs_per_pack"`
	PricePerKg   decimal.Decimal `json:"price_per_kg"`
}

type UpdateProductRequest struct {
	ProductName  *string          `json:"product_name"`
	PricePerPack *decimal.Decimal `json:"price_per_pack"`
	KgsPerPack   *decimal.Decimal `json:"kgs_per_pack"`
	PricePerKg   *decimal.Decimal `json:"price_per_kg"`
	Reason       string           `json:"reason"`     // Fiyat değişikliği gerekçesi
	UpdatedBy    string           `json:"updated_by"` // Değişikliği yapan
}

type ProductResponse struct {
	ID           uint            `json:"id"`
	ProductName  string          `json:"product_name"`
	PricePerPack decimal.Decimal `json:"price_per_pack"`
	KgsPerPack   decimal.Decimal `json:"kgs_per_pack"`
	PricePerKg   decimal.Decimal `json:"price_per_kg"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

type PriceHistoryResponse struct {
	ID              uint            `json:"id"`
	ProductID       uint            `json:"product_id"`
	OldPricePerPack decimal.Decimal `json:"old_price_per_pack"`
	NewPricePerPack decimal.Decimal `json:"new_price_per_pack"`
	OldPricePerKg   decimal.Decimal `json:"old_price_per_kg"`
	NewPricePerKg   decimal.Decimal `json:"new_price_per_kg"`
	UpdatedBy       string          `json:"updated_by"`
	Reason          string          `json:"reason"`
	UpdateDate      string          `json:"update_date"`
}

func productToResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		ProductName:  p.ProductName,
		PricePerPack: p.PricePerPack,
		KgsPerPack:   p.KgsPerPack,
		PricePerKg:   p.PricePerKg,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.Format(time.RFC3339),
	}
}

func findProduct(idParam string) (*models.Product, error) {
	var id uint
	if _, err := fmt.Sscan(idParam, &id); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
	}

	var p models.Product
	if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
	}
	return &p, nil
}

// -------------------------
// Ürün CRUD
// -------------------------

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.ProductName = strings.TrimSpace(body.ProductName)
		if body.ProductName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "product_name zorunlu")
		}
		if !body.PricePerPack.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "price_per_pack 0'dan büyük olmalı")
		}

		var count int64
		database.DB.Model(&models.Product{}).
			Where("product_name = ?", body.ProductName).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir ürün zaten var")
		}

		p := models.Product{
			ProductName:  body.ProductName,
			PricePerPack: body.PricePerPack,
			KgsPerPack:   body.KgsPerPack,
			PricePerKg:   body.PricePerKg,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		cache.Remove(listCacheKey)

		return c.Status(fiber.StatusCreated).JSON(productToResponse(p))
	}
}

// GET /api/products
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cached []ProductResponse
		if ok, _ := cache.GetObject(listCacheKey, &cached); ok {
			return c.JSON(cached)
		}

		var products []models.Product
		if err := database.DB.Order("product_name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		resp := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			resp = append(resp, productToResponse(p))
		}

		cache.SetObject(listCacheKey, resp, cache.ListTTL)

		return c.JSON(resp)
	}
}

// PUT /api/products/:id
// Fiyat değişiyorsa append-only PriceHistory kaydı düşülür.
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := findProduct(c.Params("id"))
		if err != nil {
			return err
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		oldPricePerPack := p.PricePerPack
		oldPricePerKg := p.PricePerKg
		priceChanged := false
		updated := false

		if body.ProductName != nil {
			name := strings.TrimSpace(*body.ProductName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "product_name boş olamaz")
			}
			var count int64
			database.DB.Model(&models.Product{}).
				Where("product_name = ? AND id <> ?", name, p.ID).
				Count(&count)
			if count > 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir ürün zaten var")
			}
			p.ProductName = name
			updated = true
		}

		if body.PricePerPack != nil {
			if !body.PricePerPack.IsPositive() {
				return fiber.NewError(fiber.StatusBadRequest, "price_per_pack 0'dan büyük olmalı")
			}
			if !body.PricePerPack.Equal(p.PricePerPack) {
				priceChanged = true
			}
			p.PricePerPack = *body.PricePerPack
			updated = true
		}

		if body.KgsPerPack != nil {
			p.KgsPerPack = *body.KgsPerPack
			updated = true
		}

		if body.PricePerKg != nil {
			if !body.PricePerKg.Equal(p.PricePerKg) {
				priceChanged = true
			}
			p.PricePerKg = *body.PricePerKg
			updated = true
		}

		if !updated {
			return c.JSON(productToResponse(*p))
		}

		if err := database.DB.Save(p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		if priceChanged {
			hist := models.PriceHistory{
				ProductID:       p.ID,
				OldPricePerPack: oldPricePerPack,
				NewPricePerPack: p.PricePerPack,
				OldPricePerKg:   oldPricePerKg,
				NewPricePerKg:   p.PricePerKg,
				UpdatedBy:       strings.TrimSpace(body.UpdatedBy),
				Reason:          strings.TrimSpace(body.Reason),
				UpdateDate:      time.Now(),
			}
			if err := database.DB.Create(&hist).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Fiyat geçmişi kaydedilemedi")
			}
		}

		cache.Remove(listCacheKey)

		return c.JSON(productToResponse(*p))
	}
}

// GET /api/products/:id/price-history
func ListPriceHistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := findProduct(c.Params("id"))
		if err != nil {
			return err
		}

		var history []models.PriceHistory
		if err := database.DB.
			Where("product_id = ?", p.ID).
			Order("update_date desc, id desc").
			Find(&history).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fiyat geçmişi listelenemedi")
		}

		resp := make([]PriceHistoryResponse, 0, len(history))
		for _, h := range history {
			resp = append(resp, PriceHistoryResponse{
				ID:              h.ID,
				ProductID:       h.ProductID,
				OldPricePerPack: h.OldPricePerPack,
				NewPricePerPack: h.NewPricePerPack,
				OldPricePerKg:   h.OldPricePerKg,
				NewPricePerKg:   h.NewPricePerKg,
				UpdatedBy:       h.UpdatedBy,
				Reason:          h.Reason,
				UpdateDate:      h.UpdateDate.Format(time.RFC3339),
			})
		}

		return c.JSON(resp)
	}
}

// DELETE /api/products/:id
// Kalıcı silme: body'de taze mobile+şifre istenir. Fiyat geçmişi
// append-only olduğu için yerinde bırakılır.
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := findProduct(c.Params("id"))
		if err != nil {
			return err
		}

		if err := auth.ReauthenticateFromBody(c); err != nil {
			return err
		}

		if err := database.DB.Delete(p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		cache.Remove(listCacheKey)

		return c.SendStatus(fiber.StatusNoContent)
	}
}
