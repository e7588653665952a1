package handlers_fiber

import (
	"errors"
	"net/http"

	"parcelpeer/internal/entities"
	api "parcelpeer/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// GetInsuranceTiers lists coverage tiers.
func (h *Handler) GetInsuranceTiers(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(h.uc.InsuranceTiers())
}

// PostInsuranceCalculate recommends a tier for a declared value.
func (h *Handler) PostInsuranceCalculate(c *fiber.Ctx) error {
	var body api.InsuranceCalculateRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	quote, err := h.uc.QuoteInsurance(body.DeclaredValue)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(quote)
}

// PostInsuranceValidate checks a tier against a declared value.
func (h *Handler) PostInsuranceValidate(c *fiber.Ctx) error {
	var body api.InsuranceValidateRequest
	if err := h.bind(c, &body); err != nil {
		return h.writeError(c, err)
	}
	err := h.uc.ValidateInsurance(body.DeclaredValue, entities.InsuranceTierName(body.Tier))
	switch {
	case err == nil:
		return c.Status(http.StatusOK).JSON(api.InsuranceValidateResponse{Valid: true})
	case errors.Is(err, entities.ErrInsuranceCoverage):
		return c.Status(http.StatusOK).JSON(api.InsuranceValidateResponse{Valid: false, Error: err.Error()})
	default:
		return h.writeError(c, err)
	}
}
