package handlers_fiber

import (
	"net/http"
	"strings"

	"parcelpeer/internal/entities"
	"parcelpeer/internal/mapper"
	api "parcelpeer/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// GetAdminStats returns dashboard counters.
func (h *Handler) GetAdminStats(c *fiber.Ctx) error {
	stats, err := h.uc.AdminStats(c.Context())
	if err != nil {
		h.log.Errorw("failed to get admin stats", "error", err.Error())
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(stats)
}

// GetAdminUsers searches accounts.
func (h *Handler) GetAdminUsers(c *fiber.Ctx, params api.GetAdminUsersParams) error {
	filter := entities.UserFilter{
		Verified:  params.Verified,
		Suspended: params.Suspended,
		Page:      page(params.Page, params.Limit),
	}
	if params.Search != nil {
		filter.Search = strings.TrimSpace(*params.Search)
	}
	if params.Role != nil && *params.Role != "" {
		role := entities.Role(*params.Role)
		filter.Role = &role
	}

	users, pg, err := h.uc.AdminListUsers(c.Context(), filter)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIUserList(users, pg))
}

// GetAdminUsersId returns an account with activity counters.
func (h *Handler) GetAdminUsersId(c *fiber.Ctx, id string) error {
	detail, err := h.uc.AdminUser(c.Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIUserDetail(*detail))
}

// PatchAdminUsersId edits verified, suspended or role.
func (h *Handler) PatchAdminUsersId(c *fiber.Ctx, id string) error {
	var body api.AdminUserUpdateRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	upd := entities.AdminUserUpdate{Verified: body.Verified, Suspended: body.Suspended}
	if body.Role != nil {
		role := entities.Role(*body.Role)
		upd.Role = &role
	}

	usr, err := h.uc.AdminUpdateUser(c.Context(), id, upd)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIUser(*usr))
}

// GetAdminParcels lists all parcels.
func (h *Handler) GetAdminParcels(c *fiber.Ctx, params api.GetParcelsParams) error {
	return h.listParcels(c, params)
}

// PatchAdminParcelsId applies any valid lifecycle transition.
func (h *Handler) PatchAdminParcelsId(c *fiber.Ctx, id string) error {
	return h.updateParcelStatus(c, id)
}

// GetAdminPayments lists payments.
func (h *Handler) GetAdminPayments(c *fiber.Ctx, params api.GetAdminPaymentsParams) error {
	filter := entities.PaymentFilter{Page: page(params.Page, params.Limit)}
	if params.Status != nil && *params.Status != "" {
		status := entities.PaymentStatus(*params.Status)
		filter.Status = &status
	}

	payments, pg, err := h.uc.AdminListPayments(c.Context(), filter)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIPaymentList(payments, pg))
}
