package handlers_fiber

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"parcelpeer/internal/entities"
	api "parcelpeer/internal/oapi"
	"parcelpeer/internal/transport/http/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type errorMapping struct {
	err    error
	status int
	code   api.ErrorResponseErrorCode

	// detailed errors carry a user-facing message; the rest answer with the sentinel text.
	detailed bool
}

var errorMappings = []errorMapping{
	{entities.ErrInvalidArgument, http.StatusBadRequest, api.INVALIDARGUMENT, true},
	{entities.ErrInsuranceCoverage, http.StatusBadRequest, api.INSURANCECOVERAGE, true},
	{entities.ErrInvalidCredentials, http.StatusUnauthorized, api.INVALIDCREDENTIALS, false},
	{entities.ErrUnauthorized, http.StatusUnauthorized, api.UNAUTHORIZED, false},
	{entities.ErrUserSuspended, http.StatusForbidden, api.USERSUSPENDED, false},
	{entities.ErrSubscriptionInactive, http.StatusForbidden, api.SUBSCRIPTIONINACTIVE, true},
	{entities.ErrSubscriptionExpired, http.StatusForbidden, api.SUBSCRIPTIONEXPIRED, true},
	{entities.ErrParcelLimitReached, http.StatusForbidden, api.PARCELLIMITREACHED, true},
	{entities.ErrForbidden, http.StatusForbidden, api.FORBIDDEN, true},
	{entities.ErrUserNotFound, http.StatusNotFound, api.NOTFOUND, false},
	{entities.ErrParcelNotFound, http.StatusNotFound, api.NOTFOUND, false},
	{entities.ErrLocationNotFound, http.StatusNotFound, api.NOTFOUND, false},
	{entities.ErrPaymentNotFound, http.StatusNotFound, api.NOTFOUND, false},
	{entities.ErrConversationNotFound, http.StatusNotFound, api.NOTFOUND, false},
	{entities.ErrDisputeNotFound, http.StatusNotFound, api.NOTFOUND, false},
	{entities.ErrNotificationNotFound, http.StatusNotFound, api.NOTFOUND, false},
	{entities.ErrUserExists, http.StatusConflict, api.USEREXISTS, false},
	{entities.ErrParcelUnavailable, http.StatusConflict, api.PARCELUNAVAILABLE, true},
	{entities.ErrInvalidTransition, http.StatusConflict, api.INVALIDTRANSITION, true},
	{entities.ErrAlreadyPaid, http.StatusConflict, api.ALREADYPAID, false},
	{entities.ErrDuplicateReference, http.StatusConflict, api.DUPLICATEREFERENCE, false},
	{entities.ErrDisputeExists, http.StatusConflict, api.DISPUTEEXISTS, false},
	{entities.ErrDisputeClosed, http.StatusConflict, api.DISPUTECLOSED, false},
	{entities.ErrReviewExists, http.StatusConflict, api.REVIEWEXISTS, false},
	{entities.ErrInsufficientFunds, http.StatusPaymentRequired, api.INSUFFICIENTFUNDS, false},
	{entities.ErrGatewayUnavailable, http.StatusServiceUnavailable, api.GATEWAYUNAVAILABLE, false},
}

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if !errors.Is(err, m.err) {
			continue
		}
		msg := m.err.Error()
		if m.detailed {
			msg = err.Error()
		}
		if m.status >= http.StatusInternalServerError {
			h.log.Warnw("dependency unavailable", "error", err, "path", c.Path())
		}
		return c.Status(m.status).JSON(errorResponse(m.code, msg))
	}

	h.log.Errorw("request failed", "error", err, "method", c.Method(), "path", c.Path())
	return c.Status(http.StatusInternalServerError).JSON(errorResponse(api.INTERNAL, "internal error"))
}

func errorResponse(code api.ErrorResponseErrorCode, msg string) api.ErrorResponse {
	return api.ErrorResponse{Error: api.ErrorBody{Code: code, Message: msg}}
}

// bind parses the JSON body into dst and validates its struct tags.
func (h *Handler) bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("%w: invalid body", entities.ErrInvalidArgument)
	}
	if err := h.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", entities.ErrInvalidArgument, validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// actor returns the authenticated caller. Routes are guarded by middleware.Authenticate,
// so a missing actor means the route was registered without it.
func actor(c *fiber.Ctx) (entities.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return entities.Actor{}, entities.ErrUnauthorized
	}
	return a, nil
}

func page(number, limit *int) entities.Page {
	var p entities.Page
	if number != nil {
		p.Number = *number
	}
	if limit != nil {
		p.Limit = *limit
	}
	return p.Normalize()
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
