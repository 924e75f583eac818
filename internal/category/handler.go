package category

import (
	"fmt"
	"strings"

	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Alt kategoriler dizi pozisyonuyla değil kendi id'leriyle adreslenir;
// eşzamanlı düzenlemede indeks kayması olmaz.

// -------------------------
// Request/Response Types
// -------------------------

type CreateCategoryRequest struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

type UpdateCategoryRequest struct {
	Name *string `json:"name"`
}

type SubcategoryRequest struct {
	Name string `json:"name"`
}

type SubcategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CategoryResponse struct {
	ID            uint                  `json:"id"`
	Name          string                `json:"name"`
	Subcategories []SubcategoryResponse `json:"subcategories"`
}

func categoryToResponse(cat models.Category) CategoryResponse {
	subs := make([]SubcategoryResponse, 0, len(cat.Subcategories))
	for _, s := range cat.Subcategories {
		subs = append(subs, SubcategoryResponse{ID: s.ID, Name: s.Name})
	}
	return CategoryResponse{
		ID:            cat.ID,
		Name:          cat.Name,
		Subcategories: subs,
	}
}

// -------------------------
// Kategori CRUD
// -------------------------

// POST /api/categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name zorunlu")
		}

		var count int64
		database.DB.Model(&models.Category{}).
			Where("name = ?", body.Name).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir kategori zaten var")
		}

		cat := models.Category{Name: body.Name}
		for _, subName := range body.Subcategories {
			subName = strings.TrimSpace(subName)
			if subName == "" {
				continue
			}
			cat.Subcategories = append(cat.Subcategories, models.Subcategory{Name: subName})
		}

		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(categoryToResponse(cat))
	}
}

// GET /api/categories
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cats []models.Category
		if err := database.DB.
			Preload("Subcategories").
			Order("name asc").
			Find(&cats).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler listelenemedi")
		}

		resp := make([]CategoryResponse, 0, len(cats))
		for _, cat := range cats {
			resp = append(resp, categoryToResponse(cat))
		}

		return c.JSON(resp)
	}
}

// PUT /api/categories/:id
func UpdateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var cat models.Category
		if err := database.DB.Preload("Subcategories").First(&cat, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		var body UpdateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name == nil {
			return c.JSON(categoryToResponse(cat))
		}

		name := strings.TrimSpace(*body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name boş olamaz")
		}

		var count int64
		database.DB.Model(&models.Category{}).
			Where("name = ? AND id <> ?", name, cat.ID).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir kategori zaten var")
		}

		cat.Name = name
		if err := database.DB.Save(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori güncellenemedi")
		}

		return c.JSON(categoryToResponse(cat))
	}
}

// DELETE /api/categories/:id
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var cat models.Category
		if err := database.DB.First(&cat, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		// Kategoriyi kullanan gider varsa silme
		var inUse int64
		database.DB.Model(&models.Expense{}).
			Where("category_id = ?", cat.ID).
			Count(&inUse)
		if inUse > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu kategoriye bağlı giderler var, önce onları taşı veya sil")
		}

		database.DB.Where("category_id = ?", cat.ID).Delete(&models.Subcategory{})

		if err := database.DB.Delete(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// -------------------------
// Alt kategori işlemleri (id ile adreslenir)
// -------------------------

// POST /api/categories/:id/subcategories
func AddSubcategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var cat models.Category
		if err := database.DB.First(&cat, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		var body SubcategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name zorunlu")
		}

		sub := models.Subcategory{
			CategoryID: cat.ID,
			Name:       body.Name,
		}

		if err := database.DB.Create(&sub).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alt kategori oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(SubcategoryResponse{ID: sub.ID, Name: sub.Name})
	}
}

// PUT /api/subcategories/:id
func UpdateSubcategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var sub models.Subcategory
		if err := database.DB.First(&sub, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Alt kategori bulunamadı")
		}

		var body SubcategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name zorunlu")
		}

		sub.Name = body.Name
		if err := database.DB.Save(&sub).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alt kategori güncellenemedi")
		}

		return c.JSON(SubcategoryResponse{ID: sub.ID, Name: sub.Name})
	}
}

// DELETE /api/subcategories/:id
func DeleteSubcategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var sub models.Subcategory
		if err := database.DB.First(&sub, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Alt kategori bulunamadı")
		}

		if err := database.DB.Delete(&sub).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alt kategori silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
