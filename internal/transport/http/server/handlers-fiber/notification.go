package handlers_fiber

import (
	"net/http"

	"parcelpeer/internal/mapper"
	api "parcelpeer/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications lists the caller's notifications.
func (h *Handler) GetNotifications(c *fiber.Ctx, params api.GetNotificationsParams) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	unread := params.UnreadOnly != nil && *params.UnreadOnly
	list, err := h.uc.Notifications(c.Context(), a.ID, unread, intOr(params.Limit, 0))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPINotifications(list))
}

// PatchNotificationsIdRead marks a notification read.
func (h *Handler) PatchNotificationsIdRead(c *fiber.Ctx, id string) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	n, err := h.uc.MarkNotificationRead(c.Context(), a.ID, id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPINotification(*n))
}
