package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "unihub/docs"
	"unihub/internal/http/middleware"
	"unihub/internal/service"
)

// HealthCheck pings one backing store.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Auth       service.AuthService
	Documents  service.DocumentService
	Engagement service.EngagementService
	Content    service.ContentService
	Checks     []HealthCheck
	Log        *zap.Logger
}

type handler struct {
	auth       service.AuthService
	docs       service.DocumentService
	engagement service.EngagementService
	content    service.ContentService
	checks     []HealthCheck
	log        *zap.Logger
}

func (h *handler) fail(c *fiber.Ctx, err error) error {
	return fail(c, h.log, err)
}

// RegisterRoutes attaches every API route to app.
func RegisterRoutes(app *fiber.App, d Dependencies) {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	h := &handler{
		auth:       d.Auth,
		docs:       d.Documents,
		engagement: d.Engagement,
		content:    d.Content,
		checks:     d.Checks,
		log:        log,
	}

	required := middleware.RequireAuth(d.Auth)
	optional := middleware.OptionalAuth(d.Auth)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/api/health", h.health)
	app.Get("/api", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "UniHub API is running"})
	})

	// Accounts
	app.Post("/api/register", h.register)
	app.Post("/api/login", h.login)
	app.Get("/api/me", required, h.me)
	app.Post("/api/profile/update", required, h.updateProfile)
	app.Post("/api/profile/change-password", required, h.changePassword)
	app.Get("/api/users/:id/avatar", h.avatar)

	// Documents
	app.Post("/uploadfile", optional, h.upload)
	app.Get("/documents", h.listDocuments)
	app.Get("/api/search", h.search)
	app.Get("/api/documents/:id", h.getDocument)
	app.Get("/api/documents/:id/download", optional, h.download)
	app.Get("/api/me/documents", required, h.myDocuments)
	app.Get("/api/me/downloads", required, h.myDownloads)
	app.Get("/api/me/favorites", required, h.myFavorites)

	// Engagement
	app.Get("/api/documents/:id/comments", h.listComments)
	app.Post("/api/documents/:id/comments", required, h.addComment)
	app.Get("/api/documents/:id/votes", optional, h.voteStatus)
	app.Post("/api/documents/:id/votes", required, h.toggleVote)
	app.Get("/api/documents/:id/favorite", required, h.favoriteStatus)
	app.Post("/api/documents/:id/favorite", required, h.toggleFavorite)

	// Content processing
	app.Post("/api/documents/:id/process-pdf", required, h.processDocument)
	app.Post("/api/documents/:id/generate-quiz", required, h.generateQuiz)
	app.Post("/api/generate-quiz-from-file-complete", required, h.processFile)

	// The spec is registered once at init and only read here; an empty host
	// makes the UI target whichever origin served it.
	app.Get("/swagger/*", swagger.HandlerDefault)
}
