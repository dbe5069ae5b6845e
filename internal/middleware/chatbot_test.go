package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/fnt-jany/day4/internal/models"
	"github.com/fnt-jany/day4/internal/services"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newKeyProtectedApp(t *testing.T) (*fiber.App, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.UserSetting{}))

	user := models.User{GoogleSub: "middleware-user"}
	require.NoError(t, db.Create(&user).Error)

	apiKeys := services.NewAPIKeyService(db)
	issued, err := apiKeys.Issue(user.ID)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/protected", APIKeyProtected(apiKeys), func(c *fiber.Ctx) error {
		userID, err := ChatbotUserID(c)
		if err != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"userId": userID})
	})
	return app, issued.Key
}

func TestAPIKeyProtectedAcceptsValidKey(t *testing.T) {
	app, key := newKeyProtectedApp(t)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"userId":1`)
}

func TestAPIKeyProtectedRejectsBadCredentials(t *testing.T) {
	app, key := newKeyProtectedApp(t)

	cases := map[string]string{
		"no header":      "",
		"not bearer":     "Basic " + key,
		"wrong prefix":   "Bearer sk-other-vendor",
		"unknown key":    "Bearer day4_ck_AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		"truncated key":  "Bearer " + key[:len(key)-4],
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}
