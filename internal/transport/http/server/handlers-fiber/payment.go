package handlers_fiber

import (
	"net/http"

	"parcelpeer/internal/mapper"
	api "parcelpeer/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

const paystackSignatureHeader = "x-paystack-signature"

// PostPaymentsInitialize opens a hosted checkout for a parcel.
func (h *Handler) PostPaymentsInitialize(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.ParcelPaymentRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	co, err := h.uc.InitializeParcelPayment(c.Context(), a, body.ParcelId)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPICheckout(*co))
}

// PostPaymentsWallet pays for a parcel from the caller's wallet.
func (h *Handler) PostPaymentsWallet(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.ParcelPaymentRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	p, err := h.uc.PayParcelWithWallet(c.Context(), a, body.ParcelId)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToOAPIPayment(*p))
}

// GetPaymentsVerifyReference settles a payment against the gateway.
func (h *Handler) GetPaymentsVerifyReference(c *fiber.Ctx, reference string) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	p, err := h.uc.VerifyPayment(c.Context(), a, reference)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIPayment(*p))
}

// GetPaymentsHistory lists the caller's payments.
func (h *Handler) GetPaymentsHistory(c *fiber.Ctx, params api.PageParams) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	payments, pg, err := h.uc.PaymentHistory(c.Context(), a.ID, page(params.Page, params.Limit))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIPaymentList(payments, pg))
}

// PostPaymentsWebhook receives signed gateway events.
func (h *Handler) PostPaymentsWebhook(c *fiber.Ctx) error {
	// The body is copied because fasthttp reuses the buffer after the handler returns.
	body := append([]byte(nil), c.Body()...)
	if err := h.uc.HandleWebhook(c.Context(), body, c.Get(paystackSignatureHeader)); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(http.StatusOK)
}
