package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"parcelpeer/internal/entities"
	api "parcelpeer/internal/oapi"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "session"

const actorKey = "actor"

// Authenticator resolves a session token into the caller.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (entities.Actor, error)
}

// Authenticate requires a valid token from the Authorization header or the session cookie.
func Authenticate(log *zap.SugaredLogger, auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			return deny(c, http.StatusUnauthorized, api.UNAUTHORIZED, "authentication required")
		}
		actor, err := auth.Authenticate(c.Context(), tok)
		switch {
		case err == nil:
		case errors.Is(err, entities.ErrUserSuspended):
			log.Infow("suspended account rejected", "path", c.Path())
			return deny(c, http.StatusForbidden, api.USERSUSPENDED, "account suspended")
		case errors.Is(err, entities.ErrUnauthorized):
			log.Debugw("rejected session token", "error", err, "path", c.Path())
			if c.Cookies(SessionCookie) != "" {
				c.ClearCookie(SessionCookie)
			}
			return deny(c, http.StatusUnauthorized, api.UNAUTHORIZED, "invalid or expired session")
		default:
			log.Errorw("failed to resolve session", "error", err, "path", c.Path())
			return deny(c, http.StatusInternalServerError, api.INTERNAL, "internal error")
		}
		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// RequirePermission allows the request only if the caller's role grants perm.
func RequirePermission(perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return deny(c, http.StatusUnauthorized, api.UNAUTHORIZED, "authentication required")
		}
		if !entities.HasPermission(actor.Role, entities.Permission(perm)) {
			return deny(c, http.StatusForbidden, api.FORBIDDEN, "forbidden")
		}
		return c.Next()
	}
}

// ActorFrom returns the caller stored by Authenticate.
func ActorFrom(c *fiber.Ctx) (entities.Actor, bool) {
	actor, ok := c.Locals(actorKey).(entities.Actor)
	return actor, ok && actor.ID != ""
}

func bearerToken(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return c.Cookies(SessionCookie)
}

func deny(c *fiber.Ctx, status int, code api.ErrorResponseErrorCode, msg string) error {
	return c.Status(status).JSON(api.ErrorResponse{Error: api.ErrorBody{Code: code, Message: msg}})
}
