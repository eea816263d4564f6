package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"payables_app_echo/internal/engine"
	"payables_app_echo/internal/services"
)

// error categories reported to the caller so the UI can explain the remedy
const (
	categoryValidation   = "validation"
	categoryConflict     = "conflict"
	categoryNotFound     = "not_found"
	categoryCollaborator = "collaborator"
	categoryInternal     = "internal"
)

// CustomErrorHandler maps the engine's error taxonomy to a JSON envelope.
// Validation errors are caller-input problems; conflict outcomes are defined,
// reportable states (already paid, equipment linked); collaborator failures
// are retryable and distinct from both.
func CustomErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	category := categoryInternal
	message := "Something went wrong. Please try again later."

	switch {
	case errors.Is(err, engine.ErrInvalidAmount),
		errors.Is(err, engine.ErrExceedsPendingBalance),
		errors.Is(err, engine.ErrInvalidMethod),
		errors.Is(err, engine.ErrMissingSupplementalQuantity):
		code = http.StatusBadRequest
		category = categoryValidation
		message = err.Error()

	case errors.Is(err, engine.ErrAlreadyPaid),
		errors.Is(err, engine.ErrEquipmentLinked),
		errors.Is(err, engine.ErrObligationImmutable),
		errors.Is(err, services.ErrNoRegenerationDue),
		errors.Is(err, services.ErrDuplicateRegeneration):
		code = http.StatusConflict
		category = categoryConflict
		message = err.Error()

	case errors.Is(err, gorm.ErrRecordNotFound):
		code = http.StatusNotFound
		category = categoryNotFound
		message = "Obligation not found"

	default:
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if msg, ok := he.Message.(string); ok && msg != "" {
				message = msg
			}
			switch {
			case code == http.StatusBadGateway || code == http.StatusGatewayTimeout:
				category = categoryCollaborator
			case code >= 400 && code < 500:
				category = categoryValidation
			}
		}
	}

	c.Logger().Error(err)

	if jsonErr := c.JSON(code, map[string]interface{}{
		"error":    message,
		"category": category,
	}); jsonErr != nil {
		c.Logger().Error(jsonErr)
	}
}
