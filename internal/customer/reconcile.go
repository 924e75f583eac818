package customer

import (
	"defter-backend/internal/auth"
	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// last_purchase alanının hedefi: müşterinin satış özetlerindeki en
// büyük tarih. Satış kaydı sırasında client'ın gönderdiği değer
// yazıldığı için sapma oluşabiliyor; buradaki rutinler sapmayı kapatır.

func reconcileLastPurchase(customerID uint) error {
	var sales []models.CustomerSale
	if err := database.DB.
		Where("customer_id = ?", customerID).
		Find(&sales).Error; err != nil {
		return err
	}

	// Satış yoksa dokunma
	if len(sales) == 0 {
		return nil
	}

	maxDate := sales[0].Date
	for _, s := range sales[1:] {
		if s.Date.After(maxDate) {
			maxDate = s.Date
		}
	}

	var cu models.Customer
	if err := database.DB.First(&cu, "id = ?", customerID).Error; err != nil {
		return err
	}

	if cu.LastPurchase != nil && cu.LastPurchase.Equal(maxDate) {
		return nil
	}

	return database.DB.Model(&models.Customer{}).
		Where("id = ?", customerID).
		Update("last_purchase", maxDate).Error
}

// ReconcileAllCustomers - Tüm müşteriler üzerinde last_purchase
// düzeltmesini toplu çalıştırır. Bakım operasyonu; normal istek
// akışının parçası değil.
func ReconcileAllCustomers() (checked int, fixed int, err error) {
	var customers []models.Customer
	if err := database.DB.Find(&customers).Error; err != nil {
		return 0, 0, err
	}

	for _, cu := range customers {
		var sales []models.CustomerSale
		if err := database.DB.
			Where("customer_id = ?", cu.ID).
			Find(&sales).Error; err != nil {
			return checked, fixed, err
		}
		checked++

		if len(sales) == 0 {
			continue
		}

		maxDate := sales[0].Date
		for _, s := range sales[1:] {
			if s.Date.After(maxDate) {
				maxDate = s.Date
			}
		}

		if cu.LastPurchase != nil && cu.LastPurchase.Equal(maxDate) {
			continue
		}

		if err := database.DB.Model(&models.Customer{}).
			Where("id = ?", cu.ID).
			Update("last_purchase", maxDate).Error; err != nil {
			return checked, fixed, err
		}
		fixed++
	}

	return checked, fixed, nil
}

// POST /api/maintenance/reconcile-customers (sadece admin)
func ReconcileAllCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := auth.CurrentUserID(c); err != nil {
			return err
		}

		checked, fixed, err := ReconcileAllCustomers()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Düzeltme tamamlanamadı")
		}

		return c.JSON(fiber.Map{
			"checked": checked,
			"fixed":   fixed,
		})
	}
}
