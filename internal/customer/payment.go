package customer

import (
	"strings"
	"time"

	"defter-backend/internal/auth"
	"defter-backend/internal/cache"
	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type RecordPaymentRequest struct {
	AmountReceived decimal.Decimal `json:"amount_received"`
	OtherAmount    decimal.Decimal `json:"other_amount"`
	Description    string          `json:"description"`
	PaymentMethod  string          `json:"payment_method"`
	Date           string          `json:"date"`
}

type PaymentResponse struct {
	ID             uint            `json:"id"`
	CustomerID     uint            `json:"customer_id"`
	AmountReceived decimal.Decimal `json:"amount_received"`
	OtherAmount    decimal.Decimal `json:"other_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentMethod  string          `json:"payment_method"`
	Description    string          `json:"description"`
	Date           string          `json:"date"`
	CreatedAt      string          `json:"created_at"`
}

type RecordPaymentResponse struct {
	Payment  PaymentResponse  `json:"payment"`
	Customer CustomerResponse `json:"customer"`
}

type PaginatedPaymentsResponse struct {
	Items   []PaymentResponse `json:"items"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

func paymentToResponse(p models.CustomerPayment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		CustomerID:     p.CustomerID,
		AmountReceived: p.AmountReceived,
		OtherAmount:    p.OtherAmount,
		TotalAmount:    p.TotalAmount,
		PaymentMethod:  p.PaymentMethod,
		Description:    p.Description,
		Date:           p.Date.Format("2006-01-02"),
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}

// POST /api/customers/:id/payments
//
// credit = max(0, credit - toplam). Fazla ödeme sıfırın altına
// taşınmaz, kalan tutar alacak bakiyesi olarak tutulmaz (kaynak
// sistemin davranışı).
func RecordPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		cu, err := findOwnedCustomer(ownerID, c.Params("id"))
		if err != nil {
			return err
		}

		var body RecordPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		total := body.AmountReceived.Add(body.OtherAmount)
		if !total.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "Toplam ödeme tutarı 0'dan büyük olmalı")
		}

		d, err := parseDate(body.Date)
		if err != nil {
			return err
		}

		newCredit := cu.Credit.Sub(total)
		if newCredit.IsNegative() {
			newCredit = decimal.Zero
		}

		payment := models.CustomerPayment{
			CustomerID:     cu.ID,
			AmountReceived: body.AmountReceived,
			OtherAmount:    body.OtherAmount,
			TotalAmount:    total,
			PaymentMethod:  strings.TrimSpace(body.PaymentMethod),
			Description:    strings.TrimSpace(body.Description),
			Date:           d,
		}

		if err := database.DB.Create(&payment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme kaydedilemedi")
		}

		if err := database.DB.Model(&models.Customer{}).
			Where("id = ?", cu.ID).
			Update("credit", newCredit).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri bakiyesi güncellenemedi")
		}

		cache.Remove(listCacheKey(ownerID))

		cu.Credit = newCredit

		return c.Status(fiber.StatusCreated).JSON(RecordPaymentResponse{
			Payment:  paymentToResponse(payment),
			Customer: customerToResponse(*cu),
		})
	}
}

// GET /api/customers/:id/payments?page=1&per_page=20
func ListCustomerPaymentsHandler() fiber.Handler {
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
		database.DB.Model(&models.CustomerPayment{}).
			Where("customer_id = ?", cu.ID).
			Count(&total)

		var payments []models.CustomerPayment
		if err := database.DB.
			Where("customer_id = ?", cu.ID).
			Order("date desc, id desc").
			Limit(perPage).
			Offset((page - 1) * perPage).
			Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödemeler listelenemedi")
		}

		items := make([]PaymentResponse, 0, len(payments))
		for _, p := range payments {
			items = append(items, paymentToResponse(p))
		}

		return c.JSON(PaginatedPaymentsResponse{
			Items:   items,
			Total:   total,
			Page:    page,
			PerPage: perPage,
		})
	}
}
