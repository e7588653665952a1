package handlers_fiber

import (
	"net/http"

	"parcelpeer/internal/entities"
	"parcelpeer/internal/mapper"
	api "parcelpeer/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// GetWalletBalance returns the caller's balance in kobo.
func (h *Handler) GetWalletBalance(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	balance, err := h.uc.WalletBalance(c.Context(), a.ID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(api.WalletBalance{Balance: balance, Currency: entities.Currency})
}

// GetWalletTransactions lists the caller's ledger, newest first.
func (h *Handler) GetWalletTransactions(c *fiber.Ctx, params api.LimitParams) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	txs, err := h.uc.WalletTransactions(c.Context(), a.ID, intOr(params.Limit, 0))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIWalletTransactions(txs))
}

// PostWalletTopup opens a checkout crediting the caller's wallet.
func (h *Handler) PostWalletTopup(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return h.writeError(c, err)
	}
	var body api.TopupRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	co, err := h.uc.InitializeTopup(c.Context(), a.ID, body.Amount)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPICheckout(*co))
}
