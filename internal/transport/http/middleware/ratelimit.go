package middleware

import (
	"net/http"
	"time"

	api "parcelpeer/internal/oapi"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// WebhookPath receives gateway callbacks from a few shared source IPs.
const WebhookPath = "/api/payments/webhook"

// RateLimit allows max requests per client IP in each fixed window.
func RateLimit(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        window,
		LimiterMiddleware: limiter.FixedWindow{},
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/healthz" || p == "/readyz" || p == "/metrics" || p == WebhookPath
		},
		LimitReached: func(c *fiber.Ctx) error {
			return deny(c, http.StatusTooManyRequests, api.RATELIMITED, "too many requests, please try again later")
		},
	})
}
