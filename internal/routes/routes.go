package routes

import (
	"time"

	"github.com/fnt-jany/day4/internal/config"
	"github.com/fnt-jany/day4/internal/handlers"
	"github.com/fnt-jany/day4/internal/middleware"
	"github.com/fnt-jany/day4/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	apiKeys *services.APIKeyService,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	settingsHandler *handlers.SettingsHandler,
	goalHandler *handlers.GoalHandler,
	recordHandler *handlers.RecordHandler,
	apiKeyHandler *handlers.APIKeyHandler,
	chatbotHandler *handlers.ChatbotHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/google", authHandler.GoogleSignIn)
	auth.Post("/guest", authHandler.GuestSignIn)

	// Session-protected routes (JWT)
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)

	api.Get("/settings", middleware.JWTProtected(cfg), settingsHandler.Get)
	api.Put("/settings", middleware.JWTProtected(cfg), settingsHandler.Update)

	goals := api.Group("/goals", middleware.JWTProtected(cfg))
	goals.Get("/", goalHandler.List)
	goals.Post("/", goalHandler.Create)
	goals.Put("/:goalId", goalHandler.Update)
	goals.Delete("/:goalId", goalHandler.Delete)
	goals.Post("/:goalId/records", recordHandler.Create)
	goals.Put("/:goalId/records/:recordId", recordHandler.Update)
	goals.Delete("/:goalId/records/:recordId", recordHandler.Delete)

	// Credential management stays session-authenticated: the chatbot key
	// can never mint or revoke itself.
	api.Get("/chatbot/api-key", middleware.JWTProtected(cfg), apiKeyHandler.Status)
	api.Post("/chatbot/api-key/issue", middleware.JWTProtected(cfg), apiKeyHandler.Issue)
	api.Delete("/chatbot/api-key", middleware.JWTProtected(cfg), apiKeyHandler.Revoke)

	// Chatbot ingestion — scoped API key auth
	chatbot := api.Group("/chatbot", middleware.APIKeyProtected(apiKeys))
	chatbot.Get("/goals", chatbotHandler.ListGoals)
	chatbot.Post("/records", chatbotHandler.CreateRecord)
	chatbot.Post("/records/batch", chatbotHandler.CreateBatch)
	chatbot.Get("/records", chatbotHandler.ListRecords)
	chatbot.Put("/records/:recordId", chatbotHandler.UpdateRecord)
	chatbot.Delete("/records/:recordId", chatbotHandler.DeleteRecord)
}
