package handlers_fiber

import (
	"net/http"

	"parcelpeer/internal/mapper"
	api "parcelpeer/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// GetConversations lists the caller's chats with their last message.
func (h *Handler) GetConversations(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	convs, err := h.uc.Conversations(c.Context(), a.ID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIConversations(convs))
}

// PostConversations opens a chat or returns the existing one.
func (h *Handler) PostConversations(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.StartConversationRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	conv, err := h.uc.StartConversation(c.Context(), a, body.ParticipantId, body.ParcelId)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIConversation(*conv))
}

// GetConversationsIdMessages lists a chat thread.
func (h *Handler) GetConversationsIdMessages(c *fiber.Ctx, id string, params api.LimitParams) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	msgs, err := h.uc.Messages(c.Context(), a, id, intOr(params.Limit, 0))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIMessages(msgs))
}

// PostConversationsIdMessages posts to a chat.
func (h *Handler) PostConversationsIdMessages(c *fiber.Ctx, id string) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.SendMessageRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	msg, err := h.uc.SendMessage(c.Context(), a, id, body.Text)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToOAPIMessage(*msg))
}
