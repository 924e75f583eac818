package customer

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

// -------------------------
// Request/Response Types
// -------------------------

type CreateCustomerRequest struct {
	Name     string           `json:"name"`
	Contact  string           `json:"contact"`
	Credit   *decimal.Decimal `json:"credit"`
	JoinDate string           `json:"join_date"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
}

type CustomerResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Contact      string          `json:"contact"`
	Credit       decimal.Decimal `json:"credit"`
	JoinDate     string          `json:"join_date"`
	LastPurchase *string         `json:"last_purchase"`
	SaleCount    int             `json:"sale_count"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
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

func listCacheKey(ownerID uint) string {
	return fmt.Sprintf("customers:list:%d", ownerID)
}

func customerToResponse(cu models.Customer) CustomerResponse {
	var lastPurchase *string
	if cu.LastPurchase != nil {
		s := cu.LastPurchase.Format("2006-01-02")
		lastPurchase = &s
	}
	return CustomerResponse{
		ID:           cu.ID,
		Name:         cu.Name,
		Contact:      cu.Contact,
		Credit:       cu.Credit,
		JoinDate:     cu.JoinDate.Format("2006-01-02"),
		LastPurchase: lastPurchase,
		SaleCount:    len(cu.Sales),
		CreatedAt:    cu.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    cu.UpdatedAt.Format(time.RFC3339),
	}
}

func findOwnedCustomer(ownerID uint, idParam string) (*models.Customer, error) {
	var id uint
	if _, err := fmt.Sscan(idParam, &id); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
	}

	var cu models.Customer
	if err := database.DB.
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&cu).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
	}
	return &cu, nil
}

// -------------------------
// Müşteri CRUD
// -------------------------

// POST /api/customers
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name zorunlu")
		}

		joinDate := time.Now()
		if body.JoinDate != "" {
			d, err := parseDate(body.JoinDate)
			if err != nil {
				return err
			}
			joinDate = d
		}

		credit := decimal.Zero
		if body.Credit != nil {
			if body.Credit.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "credit negatif olamaz")
			}
			credit = *body.Credit
		}

		cu := models.Customer{
			OwnerID:  ownerID,
			Name:     body.Name,
			Contact:  strings.TrimSpace(body.Contact),
			Credit:   credit,
			JoinDate: joinDate,
		}

		if err := database.DB.Create(&cu).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri oluşturulamadı")
		}

		cache.Remove(listCacheKey(ownerID))

		return c.Status(fiber.StatusCreated).JSON(customerToResponse(cu))
	}
}

// GET /api/customers
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		key := listCacheKey(ownerID)
		var cached []CustomerResponse
		if ok, _ := cache.GetObject(key, &cached); ok {
			return c.JSON(cached)
		}

		var customers []models.Customer
		if err := database.DB.
			Where("owner_id = ?", ownerID).
			Preload("Sales").
			Order("name asc").
			Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteriler listelenemedi")
		}

		resp := make([]CustomerResponse, 0, len(customers))
		for _, cu := range customers {
			resp = append(resp, customerToResponse(cu))
		}

		cache.SetObject(key, resp, cache.ListTTL)

		return c.JSON(resp)
	}
}

// GET /api/customers/:id
func GetCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		cu, err := findOwnedCustomer(ownerID, c.Params("id"))
		if err != nil {
			return err
		}

		if err := database.DB.Preload("Sales").Preload("Payments").
			First(cu, cu.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri yüklenemedi")
		}

		return c.JSON(customerToResponse(*cu))
	}
}

// PUT /api/customers/:id
func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		cu, err := findOwnedCustomer(ownerID, c.Params("id"))
		if err != nil {
			return err
		}

		var body UpdateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		updated := false

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name boş olamaz")
			}
			cu.Name = name
			updated = true
		}

		if body.Contact != nil {
			cu.Contact = strings.TrimSpace(*body.Contact)
			updated = true
		}

		if updated {
			if err := database.DB.Save(cu).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Müşteri güncellenemedi")
			}
			cache.Remove(listCacheKey(ownerID))
		}

		return c.JSON(customerToResponse(*cu))
	}
}

// DELETE /api/customers/:id
// Kalıcı silme: bearer token yetmez, body'de taze mobile+şifre istenir.
func DeleteCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		cu, err := findOwnedCustomer(ownerID, c.Params("id"))
		if err != nil {
			return err
		}

		if err := auth.ReauthenticateFromBody(c); err != nil {
			return err
		}

		// Satış özetleri ve ödemeler müşteriyle birlikte gider
		database.DB.Where("customer_id = ?", cu.ID).Delete(&models.CustomerSale{})
		database.DB.Where("customer_id = ?", cu.ID).Delete(&models.CustomerPayment{})

		if err := database.DB.Delete(cu).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri silinemedi")
		}

		cache.Remove(listCacheKey(ownerID))

		return c.SendStatus(fiber.StatusNoContent)
	}
}
