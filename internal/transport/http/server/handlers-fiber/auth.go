package handlers_fiber

import (
	"net/http"
	"time"

	"parcelpeer/internal/entities"
	"parcelpeer/internal/mapper"
	api "parcelpeer/internal/oapi"
	"parcelpeer/internal/transport/http/middleware"

	"github.com/gofiber/fiber/v2"
)

// PostAuthSignup registers an account and opens a session.
func (h *Handler) PostAuthSignup(c *fiber.Ctx) error {
	var body api.SignUpRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	sess, err := h.uc.SignUp(c.Context(), entities.SignUp{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Phone:    body.Phone,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	h.setSessionCookie(c, sess.Token, sess.ExpiresAt)
	return c.Status(http.StatusCreated).JSON(mapper.ToOAPISession(*sess))
}

// PostAuthSignin opens a session for valid credentials.
func (h *Handler) PostAuthSignin(c *fiber.Ctx) error {
	var body api.SignInRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	sess, err := h.uc.SignIn(c.Context(), body.Email, body.Password)
	if err != nil {
		return h.writeError(c, err)
	}
	h.setSessionCookie(c, sess.Token, sess.ExpiresAt)
	return c.Status(http.StatusOK).JSON(mapper.ToOAPISession(*sess))
}

// PostAuthSignout clears the session cookie. Bearer tokens simply expire.
func (h *Handler) PostAuthSignout(c *fiber.Ctx) error {
	c.ClearCookie(middleware.SessionCookie)
	return c.SendStatus(http.StatusNoContent)
}

// GetAuthMe returns the caller's account.
func (h *Handler) GetAuthMe(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	usr, err := h.uc.Me(c.Context(), a.ID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIUser(*usr))
}

// PostAuthChangePassword replaces the caller's password.
func (h *Handler) PostAuthChangePassword(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.ChangePasswordRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	if err := h.uc.ChangePassword(c.Context(), a.ID, body.CurrentPassword, body.NewPassword); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *Handler) setSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
