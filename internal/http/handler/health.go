package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// health pings every store; any failure reports 503 with the per-store status.
func (h *handler) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	body := fiber.Map{"status": "healthy"}
	status := fiber.StatusOK
	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.log.Warn("health_check_failed", zap.String("store", check.Name), zap.Error(err))
			body[check.Name] = "unavailable"
			body["status"] = "degraded"
			status = fiber.StatusServiceUnavailable
			continue
		}
		body[check.Name] = "ok"
	}
	return c.Status(status).JSON(body)
}
