package handlers_fiber

import (
	"net/http"

	"parcelpeer/internal/entities"
	"parcelpeer/internal/mapper"
	api "parcelpeer/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// GetDisputes lists disputes the caller is a party to.
func (h *Handler) GetDisputes(c *fiber.Ctx, params api.GetDisputesParams) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	list, pg, err := h.uc.MyDisputes(c.Context(), a, disputeStatus(params.Status), page(params.Page, params.Limit))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIDisputeList(list, pg))
}

// PostDisputes opens a dispute against the other party of a parcel.
func (h *Handler) PostDisputes(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.OpenDisputeRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	d, err := h.uc.OpenDispute(c.Context(), a, body.ParcelId, body.Subject, body.Description)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToOAPIDispute(*d))
}

// GetDisputesId returns a dispute with its thread.
func (h *Handler) GetDisputesId(c *fiber.Ctx, id string) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	d, msgs, err := h.uc.GetDispute(c.Context(), a, id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIDisputeDetail(*d, msgs))
}

// PostDisputesIdMessages posts to a dispute thread.
func (h *Handler) PostDisputesIdMessages(c *fiber.Ctx, id string) error {
	return h.postDisputeMessage(c, id)
}

// GetAdminDisputes lists all disputes.
func (h *Handler) GetAdminDisputes(c *fiber.Ctx, params api.GetDisputesParams) error {
	list, pg, err := h.uc.AdminListDisputes(c.Context(), entities.DisputeFilter{
		Status: disputeStatus(params.Status),
		Page:   page(params.Page, params.Limit),
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIDisputeList(list, pg))
}

// PatchAdminDisputesId moves a dispute to in_review or closed.
func (h *Handler) PatchAdminDisputesId(c *fiber.Ctx, id string) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.DisputeStatusRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	d, err := h.uc.AdminUpdateDisputeStatus(c.Context(), a, id, entities.DisputeStatus(body.Status))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIDispute(*d))
}

// PostAdminDisputesIdResolve records a decision and refunds the complainant.
func (h *Handler) PostAdminDisputesIdResolve(c *fiber.Ctx, id string) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.ResolveDisputeRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	d, err := h.uc.ResolveDispute(c.Context(), a, id, body.Resolution, body.RefundAmount)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIDispute(*d))
}

// PostAdminDisputesIdMessages posts an admin message to a dispute thread.
func (h *Handler) PostAdminDisputesIdMessages(c *fiber.Ctx, id string) error {
	return h.postDisputeMessage(c, id)
}

func (h *Handler) postDisputeMessage(c *fiber.Ctx, id string) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.DisputeMessageRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	msg, err := h.uc.PostDisputeMessage(c.Context(), a, id, body.Message, body.AttachmentUrl)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToOAPIDisputeMessage(*msg))
}

func disputeStatus(s *string) *entities.DisputeStatus {
	if s == nil || *s == "" {
		return nil
	}
	status := entities.DisputeStatus(*s)
	return &status
}
