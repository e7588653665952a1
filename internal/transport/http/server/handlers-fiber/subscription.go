package handlers_fiber

import (
	"net/http"

	"parcelpeer/internal/entities"
	"parcelpeer/internal/mapper"
	api "parcelpeer/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// GetSubscriptionsPlans lists plans.
func (h *Handler) GetSubscriptionsPlans(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIPlans(h.uc.Plans()))
}

// GetSubscriptionsMe summarizes the caller's subscription.
func (h *Handler) GetSubscriptionsMe(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	status, err := h.uc.SubscriptionStatus(c.Context(), a.ID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(status)
}

// PostSubscriptionsSubscribe switches to free at once or opens a checkout for a paid tier.
func (h *Handler) PostSubscriptionsSubscribe(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.SubscribeRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	res, err := h.uc.Subscribe(c.Context(), a.ID, entities.SubscriptionTier(body.Tier))
	if err != nil {
		return h.writeError(c, err)
	}

	var resp api.SubscribeResponse
	if res.User != nil {
		u := mapper.ToOAPIUser(*res.User)
		resp.User = &u
	}
	if res.Checkout != nil {
		co := mapper.ToOAPICheckout(*res.Checkout)
		resp.Checkout = &co
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// PostSubscriptionsCancel reverts the caller to the free tier.
func (h *Handler) PostSubscriptionsCancel(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	usr, err := h.uc.CancelSubscription(c.Context(), a.ID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIUser(*usr))
}
