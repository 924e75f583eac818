package auth

import (
	"strings"

	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Geri dönüşü olmayan silme işlemleri bearer token'a ek olarak taze
// kimlik kanıtı ister. İki kontrol birbirinden bağımsızdır: token
// middleware'de doğrulanır, mobile+şifre burada hash'e karşı tekrar
// doğrulanır.

type ReauthRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

// Reauthenticate - Admin kimlik bilgilerini taze olarak doğrular.
// Eksik alan -> 400, hatalı kimlik -> 401.
func Reauthenticate(mobile, password string) error {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" || password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Silme işlemi için mobile ve şifre zorunlu")
	}

	var user models.User
	if err := database.DB.
		Where("mobile = ? AND role = ?", mobile, models.RoleAdmin).
		First(&user).Error; err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Kimlik bilgileri doğrulanamadı")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Kimlik bilgileri doğrulanamadı")
	}

	return nil
}

// ReauthenticateFromBody - Body'deki mobile+şifre alanlarını okuyup doğrular.
// Silme handler'ları bunu çağırır.
func ReauthenticateFromBody(c *fiber.Ctx) error {
	var body ReauthRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Silme işlemi için mobile ve şifre zorunlu")
	}
	return Reauthenticate(body.Mobile, body.Password)
}
