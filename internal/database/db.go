package database

import (
	"log"

	"defter-backend/internal/config"
	"defter-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate - Tüm modelleri migrate eder. Testler aynı listeyi
// in-memory sqlite üzerinde kullanıyor.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.LedgerType{},
		&models.LedgerEntry{},
		&models.Customer{},
		&models.CustomerSale{},
		&models.CustomerPayment{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Product{},
		&models.PriceHistory{},
		&models.Vendor{},
		&models.Purchase{},
		&models.VendorPayment{},
		&models.Category{},
		&models.Subcategory{},
		&models.Expense{},
	)
}
