package handlers_fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Healthz reports that the process is serving.
func (h *Handler) Healthz(c *fiber.Ctx) error {
	return c.SendStatus(http.StatusOK)
}

// Readyz reports whether storage is reachable.
func (h *Handler) Readyz(c *fiber.Ctx) error {
	if err := h.uc.Ready(c.Context()); err != nil {
		h.log.Warnw("readiness check failed", "error", err)
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "ok"})
}
