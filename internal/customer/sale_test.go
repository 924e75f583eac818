package customer

import (
	"testing"

	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Veresiye satış: 100 bakiyeli müşteriye 250'lik satış sonrası bakiye
// 350, last_purchase satış tarihi, satış sayısı 1.
func TestRecordSale_CreditAndLastPurchase(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	cu := createTestCustomer(t, app, "Ahmet", "100")

	resp := doJSON(t, app, "POST", "/api/customers/"+itoa(cu.ID)+"/sales", fiber.Map{
		"sale_type":   "credit",
		"total_price": "250",
		"date":        "2025-03-10",
		"items": []fiber.Map{
			{"product_id": 1, "quantity": "2", "price": "125"},
		},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result RecordSaleResponse
	decodeBody(t, resp, &result)

	assert.True(t, result.Customer.Credit.Equal(dec("350")))
	require.NotNil(t, result.Customer.LastPurchase)
	assert.Equal(t, "2025-03-10", *result.Customer.LastPurchase)
	assert.Equal(t, 1, result.Customer.SaleCount)
	assert.Len(t, result.Sale.Items, 1)
}

// Client updated_credit gönderirse sunucu hesaplamaz, gelen değeri yazar.
func TestRecordSale_ClientSuppliedCreditWins(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	cu := createTestCustomer(t, app, "Ahmet", "100")

	resp := doJSON(t, app, "POST", "/api/customers/"+itoa(cu.ID)+"/sales", fiber.Map{
		"sale_type":      "credit",
		"total_price":    "250",
		"updated_credit": "175",
		"date":           "2025-03-10",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result RecordSaleResponse
	decodeBody(t, resp, &result)
	assert.True(t, result.Customer.Credit.Equal(dec("175")))
}

// Eski tarihli satış, mevcut last_purchase'ı geriye çekemez: yazma
// sonrası düzeltme turu en büyük satış tarihini geri yükler.
func TestRecordSale_BackdatedSaleDoesNotRewindLastPurchase(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	cu := createTestCustomer(t, app, "Ahmet", "0")

	doJSON(t, app, "POST", "/api/customers/"+itoa(cu.ID)+"/sales", fiber.Map{
		"sale_type": "cash", "total_price": "100", "date": "2025-03-15",
	})

	resp := doJSON(t, app, "POST", "/api/customers/"+itoa(cu.ID)+"/sales", fiber.Map{
		"sale_type": "cash", "total_price": "50", "date": "2025-03-01",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result RecordSaleResponse
	decodeBody(t, resp, &result)
	require.NotNil(t, result.Customer.LastPurchase)
	assert.Equal(t, "2025-03-15", *result.Customer.LastPurchase)
}

func TestRecordSale_Validation(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	cu := createTestCustomer(t, app, "Ahmet", "0")

	resp := doJSON(t, app, "POST", "/api/customers/"+itoa(cu.ID)+"/sales", fiber.Map{
		"sale_type": "cash", "total_price": "0", "date": "2025-03-01",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/customers/"+itoa(cu.ID)+"/sales", fiber.Map{
		"sale_type": "cash", "total_price": "100", "date": "2025-03-01",
		"items": []fiber.Map{
			{"product_id": 0, "quantity": "1", "price": "100"},
		},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/customers/"+itoa(cu.ID)+"/sales", fiber.Map{
		"sale_type": "cash", "total_price": "100", "date": "01.03.2025",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListSales_Pagination(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	cu := createTestCustomer(t, app, "Ahmet", "0")

	for i := 0; i < 5; i++ {
		resp := doJSON(t, app, "POST", "/api/customers/"+itoa(cu.ID)+"/sales", fiber.Map{
			"sale_type": "cash", "total_price": "10", "date": "2025-04-0" + itoa(uint(i+1)),
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	var page PaginatedSalesResponse
	resp := doJSON(t, app, "GET", "/api/sales?page=1&per_page=2", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &page)

	assert.EqualValues(t, 5, page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.PerPage)

	// En yeni tarih önce
	assert.Equal(t, "2025-04-05", page.Items[0].Date)
}

// Satış silinince müşteri üzerindeki denormalize özet yerinde kalır;
// bakiye de geri alınmaz. Bu kasıtlı bir davranış.
func TestDeleteSale_LeavesCustomerSummary(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	cu := createTestCustomer(t, app, "Ahmet", "0")

	resp := doJSON(t, app, "POST", "/api/customers/"+itoa(cu.ID)+"/sales", fiber.Map{
		"sale_type": "credit", "total_price": "100", "date": "2025-05-01",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result RecordSaleResponse
	decodeBody(t, resp, &result)

	resp = doJSON(t, app, "DELETE", "/api/sales/"+itoa(result.Sale.ID), fiber.Map{
		"mobile":   testAdminMobile,
		"password": testAdminPassword,
	})
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	var sales int64
	database.DB.Model(&models.Sale{}).Where("id = ?", result.Sale.ID).Count(&sales)
	assert.Zero(t, sales)

	var summaries int64
	database.DB.Model(&models.CustomerSale{}).Where("customer_id = ?", cu.ID).Count(&summaries)
	assert.EqualValues(t, 1, summaries)

	var fresh models.Customer
	require.NoError(t, database.DB.First(&fresh, cu.ID).Error)
	assert.True(t, fresh.Credit.Equal(dec("100")))
}
