package customer

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"defter-backend/internal/auth"
	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testAdminMobile   = "05551112233"
	testAdminPassword = "cok-gizli-sifre"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.DB = db

	// Reauth testleri için gerçek hash'li admin
	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Name:         "Patron",
		Mobile:       testAdminMobile,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}).Error)

	return db
}

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, uint(1))
		c.Locals(auth.CtxUserRoleKey, models.RoleAdmin)
		return c.Next()
	})

	app.Post("/api/customers", CreateCustomerHandler())
	app.Get("/api/customers", ListCustomersHandler())
	app.Get("/api/customers/:id", GetCustomerHandler())
	app.Put("/api/customers/:id", UpdateCustomerHandler())
	app.Delete("/api/customers/:id", DeleteCustomerHandler())
	app.Post("/api/customers/:id/sales", RecordSaleHandler())
	app.Get("/api/customers/:id/sales", ListCustomerSalesHandler())
	app.Post("/api/customers/:id/payments", RecordPaymentHandler())
	app.Get("/api/customers/:id/payments", ListCustomerPaymentsHandler())
	app.Get("/api/sales", ListSalesHandler())
	app.Delete("/api/sales/:id", DeleteSaleHandler())
	app.Post("/api/maintenance/reconcile-customers", ReconcileAllCustomersHandler())

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createTestCustomer(t *testing.T, app *fiber.App, name, credit string) CustomerResponse {
	t.Helper()
	resp := doJSON(t, app, "POST", "/api/customers", fiber.Map{
		"name":      name,
		"credit":    credit,
		"join_date": "2025-01-01",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var cu CustomerResponse
	decodeBody(t, resp, &cu)
	return cu
}

func TestCreateCustomer_Defaults(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	resp := doJSON(t, app, "POST", "/api/customers", fiber.Map{"name": "Ahmet"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var cu CustomerResponse
	decodeBody(t, resp, &cu)
	assert.Equal(t, "Ahmet", cu.Name)
	assert.True(t, cu.Credit.IsZero())
	assert.Nil(t, cu.LastPurchase)
	assert.Zero(t, cu.SaleCount)
}

func TestCreateCustomer_NegativeCreditRejected(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	resp := doJSON(t, app, "POST", "/api/customers", fiber.Map{
		"name":   "Ahmet",
		"credit": "-10",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetCustomer_ForeignOwnerNotFound(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp()

	foreign := models.Customer{OwnerID: 2, Name: "Başkasının Müşterisi", Credit: decimal.Zero}
	require.NoError(t, db.Create(&foreign).Error)

	resp := doJSON(t, app, "GET", "/api/customers/"+itoa(foreign.ID), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// Kalıcı silme bearer token'la yetinmez: body'de taze mobile+şifre
// ister. Eksik alan 400, yanlış kimlik 401, doğru kimlik 204.
func TestDeleteCustomer_ReauthGate(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	cu := createTestCustomer(t, app, "Ahmet", "0")

	resp := doJSON(t, app, "DELETE", "/api/customers/"+itoa(cu.ID), fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, "DELETE", "/api/customers/"+itoa(cu.ID), fiber.Map{
		"mobile":   testAdminMobile,
		"password": "yanlis-sifre",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "DELETE", "/api/customers/"+itoa(cu.ID), fiber.Map{
		"mobile":   testAdminMobile,
		"password": testAdminPassword,
	})
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/customers/"+itoa(cu.ID), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteCustomer_RemovesSummariesAndPayments(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	cu := createTestCustomer(t, app, "Ahmet", "0")

	doJSON(t, app, "POST", "/api/customers/"+itoa(cu.ID)+"/sales", fiber.Map{
		"sale_type":   "credit",
		"total_price": "100",
		"date":        "2025-02-01",
	})
	doJSON(t, app, "POST", "/api/customers/"+itoa(cu.ID)+"/payments", fiber.Map{
		"amount_received": "50",
		"date":            "2025-02-02",
	})

	resp := doJSON(t, app, "DELETE", "/api/customers/"+itoa(cu.ID), fiber.Map{
		"mobile":   testAdminMobile,
		"password": testAdminPassword,
	})
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	var saleSummaries, payments int64
	database.DB.Model(&models.CustomerSale{}).Where("customer_id = ?", cu.ID).Count(&saleSummaries)
	database.DB.Model(&models.CustomerPayment{}).Where("customer_id = ?", cu.ID).Count(&payments)
	assert.Zero(t, saleSummaries)
	assert.Zero(t, payments)
}
