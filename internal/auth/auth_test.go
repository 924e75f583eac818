package auth

import (
	"net/http/httptest"
	"testing"

	"defter-backend/internal/config"
	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testMobile   = "05551112233"
	testPassword = "cok-gizli-sifre"
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
	return db
}

func seedAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Name:         "Patron",
		Mobile:       testMobile,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func statusOf(err error) int {
	var fe *fiber.Error
	if e, ok := err.(*fiber.Error); ok {
		fe = e
	}
	if fe == nil {
		return 0
	}
	return fe.Code
}

func TestReauthenticate_MissingFields(t *testing.T) {
	db := setupTestDB(t)
	seedAdmin(t, db)

	assert.Equal(t, fiber.StatusBadRequest, statusOf(Reauthenticate("", testPassword)))
	assert.Equal(t, fiber.StatusBadRequest, statusOf(Reauthenticate(testMobile, "")))
	assert.Equal(t, fiber.StatusBadRequest, statusOf(Reauthenticate("  ", testPassword)))
}

func TestReauthenticate_WrongCredentials(t *testing.T) {
	db := setupTestDB(t)
	seedAdmin(t, db)

	assert.Equal(t, fiber.StatusUnauthorized, statusOf(Reauthenticate(testMobile, "yanlis")))
	assert.Equal(t, fiber.StatusUnauthorized, statusOf(Reauthenticate("05550000000", testPassword)))
}

// Reauth sadece admin hesaba karşı doğrular; staff kimliği geçmez.
func TestReauthenticate_StaffRejected(t *testing.T) {
	db := setupTestDB(t)
	seedAdmin(t, db)

	hash, err := bcrypt.GenerateFromPassword([]byte("staff-sifre"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Name:         "Eleman",
		Mobile:       "05559998877",
		PasswordHash: string(hash),
		Role:         models.RoleStaff,
	}).Error)

	assert.Equal(t, fiber.StatusUnauthorized, statusOf(Reauthenticate("05559998877", "staff-sifre")))
	assert.NoError(t, Reauthenticate(testMobile, testPassword))
}

func TestJWTMiddleware_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	user := seedAdmin(t, db)

	cfg := &config.Config{JWTSecret: "en-az-otuz-iki-karakterlik-sir!!"}

	token, err := GenerateToken(cfg.JWTSecret, user)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/protected", JWTMiddleware(cfg), func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user_id": userID})
	})

	// Token yoksa 401
	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Bozuk token 401
	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer bozuk.token.degeri")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Geçerli token geçer
	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRole_BlocksOtherRoles(t *testing.T) {
	app := fiber.New()
	app.Get("/admin-only",
		func(c *fiber.Ctx) error {
			c.Locals(CtxUserIDKey, uint(1))
			c.Locals(CtxUserRoleKey, models.RoleStaff)
			return c.Next()
		},
		RequireRole(models.RoleAdmin),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)

	req := httptest.NewRequest("GET", "/admin-only", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
