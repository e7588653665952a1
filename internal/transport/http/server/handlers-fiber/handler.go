// Package handlers_fiber wires HTTP delivery components.
package handlers_fiber

import (
	"reflect"
	"strings"

	api "parcelpeer/internal/oapi"
	"parcelpeer/internal/usecase"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var _ api.ServerInterface = (*Handler)(nil)

// Handler implements oapi.ServerInterface using service layer interfaces.
type Handler struct {
	log      *zap.SugaredLogger
	uc       usecase.InterfaceUsecase
	validate *validator.Validate

	// secureCookie marks the session cookie Secure.
	secureCookie bool
}

// NewHandler constructs an HTTP server with service dependencies.
func NewHandler(log *zap.SugaredLogger, usecase usecase.InterfaceUsecase, secureCookie bool) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Handler{
		log:          log.Named("http"),
		uc:           usecase,
		validate:     v,
		secureCookie: secureCookie,
	}
}
