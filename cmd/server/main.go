package main

import (
	"log"
	"strings"

	"defter-backend/internal/assistant"
	"defter-backend/internal/auth"
	"defter-backend/internal/cache"
	"defter-backend/internal/category"
	"defter-backend/internal/config"
	"defter-backend/internal/customer"
	"defter-backend/internal/database"
	"defter-backend/internal/expense"
	"defter-backend/internal/ledger"
	"defter-backend/internal/logger"
	"defter-backend/internal/models"
	"defter-backend/internal/product"
	"defter-backend/internal/vendor"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	database.Init(cfg)
	cache.Connect(cfg.RedisAddr)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logger.LogError("server", "ErrorHandler", "beklenmeyen hata", fiber.Map{
				"path":   c.Path(),
				"method": c.Method(),
			}, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den temizleyerek geçir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Public
	app.Post("/api/auth/register-admin", auth.RegisterAdminHandler(cfg))
	app.Post("/api/auth/login", auth.LoginHandler(cfg))

	// Korumalı rotalar
	api := app.Group("/api", auth.JWTMiddleware(cfg))

	api.Get("/auth/me", auth.MeHandler())

	// Defterler: tür + kayıt + özet
	api.Post("/ledgers/:kind/types", ledger.CreateTypeHandler())
	api.Get("/ledgers/:kind/types", ledger.ListTypesHandler())
	api.Put("/ledgers/:kind/types/:id", ledger.UpdateTypeHandler())
	api.Delete("/ledgers/:kind/types/:id", ledger.DeleteTypeHandler())
	api.Get("/ledgers/:kind/summary", ledger.SummaryHandler())
	api.Post("/ledgers/:kind/entries", ledger.CreateEntryHandler())
	api.Get("/ledgers/:kind/entries", ledger.ListEntriesHandler())
	api.Put("/ledgers/:kind/entries/:id", ledger.UpdateEntryHandler())
	api.Delete("/ledgers/:kind/entries/:id", ledger.DeleteEntryHandler())
	api.Post("/ledgers/income/from-savings", ledger.IncomeFromSavingsHandler())

	// Müşteriler
	api.Post("/customers", customer.CreateCustomerHandler())
	api.Get("/customers", customer.ListCustomersHandler())
	api.Get("/customers/:id", customer.GetCustomerHandler())
	api.Put("/customers/:id", customer.UpdateCustomerHandler())
	api.Delete("/customers/:id", customer.DeleteCustomerHandler())
	api.Post("/customers/:id/sales", customer.RecordSaleHandler())
	api.Get("/customers/:id/sales", customer.ListCustomerSalesHandler())
	api.Post("/customers/:id/payments", customer.RecordPaymentHandler())
	api.Get("/customers/:id/payments", customer.ListCustomerPaymentsHandler())

	// Satışlar
	api.Get("/sales", customer.ListSalesHandler())
	api.Delete("/sales/:id", customer.DeleteSaleHandler())

	// Bakım (sadece admin)
	api.Post("/maintenance/reconcile-customers",
		auth.RequireRole(models.RoleAdmin), customer.ReconcileAllCustomersHandler())

	// Ürünler
	api.Post("/products", product.CreateProductHandler())
	api.Get("/products", product.ListProductsHandler())
	api.Put("/products/:id", product.UpdateProductHandler())
	api.Get("/products/:id/price-history", product.ListPriceHistoryHandler())
	api.Delete("/products/:id", product.DeleteProductHandler())

	// Tedarikçiler ve alımlar
	api.Post("/vendors", vendor.CreateVendorHandler())
	api.Get("/vendors", vendor.ListVendorsHandler())
	api.Put("/vendors/:id", vendor.UpdateVendorHandler())
	api.Delete("/vendors/:id", vendor.DeleteVendorHandler())
	api.Post("/vendors/:id/purchases", vendor.RecordPurchaseHandler())
	api.Get("/vendors/:id/purchases", vendor.ListPurchasesHandler())
	api.Delete("/purchases/:id", vendor.DeletePurchaseHandler())
	api.Post("/vendors/:id/payments", vendor.RecordVendorPaymentHandler())
	api.Get("/vendors/:id/payments", vendor.ListVendorPaymentsHandler())

	// Giderler
	api.Post("/expenses", expense.CreateExpenseHandler())
	api.Get("/expenses", expense.ListExpensesHandler())
	api.Get("/expenses/summary/monthly", expense.MonthlySummaryHandler())
	api.Put("/expenses/:id", expense.UpdateExpenseHandler())
	api.Delete("/expenses/:id", expense.DeleteExpenseHandler())

	// Kategoriler
	api.Post("/categories", category.CreateCategoryHandler())
	api.Get("/categories", category.ListCategoriesHandler())
	api.Put("/categories/:id", category.UpdateCategoryHandler())
	api.Delete("/categories/:id", category.DeleteCategoryHandler())
	api.Post("/categories/:id/subcategories", category.AddSubcategoryHandler())
	api.Put("/subcategories/:id", category.UpdateSubcategoryHandler())
	api.Delete("/subcategories/:id", category.DeleteSubcategoryHandler())

	// AI asistan
	api.Post("/assistant/chat", assistant.ChatHandler(cfg))

	log.Printf("Sunucu %s portunda başlıyor", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatalf("Sunucu başlatılamadı: %v", err)
	}
}
