package handlers_fiber

import (
	"net/http"

	"parcelpeer/internal/entities"
	"parcelpeer/internal/mapper"
	api "parcelpeer/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// GetParcelsReceived lists parcels addressed to the caller.
func (h *Handler) GetParcelsReceived(c *fiber.Ctx, params api.GetReceivedParcelsParams) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var status *entities.ParcelStatus
	if params.Status != nil && *params.Status != "" {
		s := entities.ParcelStatus(*params.Status)
		status = &s
	}
	parcels, pg, err := h.uc.ReceivedParcels(c.Context(), a, status, page(params.Page, params.Limit))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIParcelList(parcels, pg))
}

// GetReceiverStats counts the caller's incoming parcels.
func (h *Handler) GetReceiverStats(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	s, err := h.uc.ReceiverStats(c.Context(), a)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIReceiverStats(s))
}

// GetParcelsIdEta estimates the carrier's arrival at the drop-off point.
func (h *Handler) GetParcelsIdEta(c *fiber.Ctx, id string) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	eta, err := h.uc.ParcelETA(c.Context(), a, id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIETA(eta))
}

// PostParcelsIdLocation records the carrier's position.
func (h *Handler) PostParcelsIdLocation(c *fiber.Ctx, id string) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.CarrierLocationRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	loc, err := h.uc.RecordCarrierLocation(c.Context(), a, id, *body.Lat, *body.Lng, body.Speed)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToOAPICarrierLocation(*loc))
}

// PostParcelsIdDeliveryProof marks the parcel delivered with a handover photo.
func (h *Handler) PostParcelsIdDeliveryProof(c *fiber.Ctx, id string) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.DeliveryProofRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	p, err := h.uc.SubmitDeliveryProof(c.Context(), a, id, body.PhotoUrl, body.Notes)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIParcel(*p))
}
