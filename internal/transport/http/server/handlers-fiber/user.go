package handlers_fiber

import (
	"net/http"

	"parcelpeer/internal/entities"
	"parcelpeer/internal/mapper"
	api "parcelpeer/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// PatchUsersMe edits the caller's name and phone.
func (h *Handler) PatchUsersMe(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.ProfileUpdateRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	usr, err := h.uc.UpdateProfile(c.Context(), a.ID, entities.ProfileUpdate{Name: body.Name, Phone: body.Phone})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIUser(*usr))
}

// GetUsersId returns a public profile.
func (h *Handler) GetUsersId(c *fiber.Ctx, id string) error {
	usr, err := h.uc.PublicProfile(c.Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIPublicUser(*usr))
}

// GetUsersIdReviews returns reviews received by a user.
func (h *Handler) GetUsersIdReviews(c *fiber.Ctx, id string) error {
	reviews, err := h.uc.UserReviews(c.Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIReviews(reviews))
}
