package handlers_fiber

import (
	"net/http"

	"parcelpeer/internal/entities"
	"parcelpeer/internal/mapper"
	api "parcelpeer/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// GetParcels lists parcels with optional filters.
func (h *Handler) GetParcels(c *fiber.Ctx, params api.GetParcelsParams) error {
	return h.listParcels(c, params)
}

// PostParcels posts a parcel for the caller.
func (h *Handler) PostParcels(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.CreateParcelRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	p, err := h.uc.CreateParcel(c.Context(), a, mapper.FromOAPICreateParcel(body))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToOAPIParcel(*p))
}

// GetParcelsId returns one parcel.
func (h *Handler) GetParcelsId(c *fiber.Ctx, id string) error {
	p, err := h.uc.GetParcel(c.Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIParcel(*p))
}

// PatchParcelsId moves a parcel along its lifecycle.
func (h *Handler) PatchParcelsId(c *fiber.Ctx, id string) error {
	return h.updateParcelStatus(c, id)
}

// PatchParcelsIdAccept makes the caller the parcel's transporter.
func (h *Handler) PatchParcelsIdAccept(c *fiber.Ctx, id string) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	p, err := h.uc.AcceptParcel(c.Context(), a, id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIParcel(*p))
}

// GetParcelsIdTrackingEvents returns a parcel's status history.
func (h *Handler) GetParcelsIdTrackingEvents(c *fiber.Ctx, id string) error {
	events, err := h.uc.TrackingEvents(c.Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPITrackingEvents(events))
}

// PostParcelsIdReviews rates the other party of a delivered parcel.
func (h *Handler) PostParcelsIdReviews(c *fiber.Ctx, id string) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.ReviewRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	r, err := h.uc.CreateReview(c.Context(), a, id, body.Rating, body.Comment)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToOAPIReview(*r))
}

// GetGeocode searches places by free text.
func (h *Handler) GetGeocode(c *fiber.Ctx, params api.GetGeocodeParams) error {
	places, err := h.uc.Geocode(c.Context(), params.Q)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(places)
}

func (h *Handler) listParcels(c *fiber.Ctx, params api.GetParcelsParams) error {
	filter := entities.ParcelFilter{
		SenderID:      params.SenderId,
		TransporterID: params.TransporterId,
		Page:          page(params.Page, params.Limit),
	}
	if params.Status != nil && *params.Status != "" {
		status := entities.ParcelStatus(*params.Status)
		filter.Status = &status
	}

	parcels, pg, err := h.uc.ListParcels(c.Context(), filter)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIParcelList(parcels, pg))
}

func (h *Handler) updateParcelStatus(c *fiber.Ctx, id string) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.UpdateParcelStatusRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	p, err := h.uc.UpdateParcelStatus(c.Context(), a, id, entities.ParcelStatus(body.Status), body.Note)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIParcel(*p))
}
