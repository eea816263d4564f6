package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"payables_app_echo/internal/models"
)

// CustomValidator hangs go-playground/validator on Echo's binding pipeline
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// ApplyPaymentRequest is the operator-recorded payment payload. Amount comes
// in as a decimal string so money never round-trips through a float.
type ApplyPaymentRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	Method          string          `json:"method" validate:"required,oneof=cash transfer card check"`
	SupplementalQty int             `json:"supplemental_qty" validate:"gte=0"`
}

// UpdateObligationRequest carries pending-only direct edits; absent fields
// are left untouched
type UpdateObligationRequest struct {
	DueDate       *string          `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Amount        *decimal.Decimal `json:"amount"`
	PaymentMethod *string          `json:"payment_method" validate:"omitempty,oneof=cash transfer card check"`
	Note          *string          `json:"note"`
}

// ConfirmRegenerationRequest optionally overrides the suggested amount for
// the next cycle
type ConfirmRegenerationRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// CheckoutRequest starts or restarts a gateway checkout session
type CheckoutRequest struct {
	ForceNew    bool   `json:"force_new"`
	CallbackURL string `json:"callback_url" validate:"omitempty,url"`
}

// ObligationResponse decorates the persisted record with its derived fields,
// recomputed on every read
type ObligationResponse struct {
	models.PayableObligation
	EffectiveStatus models.ObligationStatus `json:"effective_status"`
	PendingBalance  decimal.Decimal         `json:"pending_balance"`
}
