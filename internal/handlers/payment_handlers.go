package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"payables_app_echo/internal/engine"
	"payables_app_echo/internal/models"
	"payables_app_echo/internal/services"
)

type PaymentHandler struct {
	db         *gorm.DB
	svc        *services.ObligationService
	paymentSvc *services.PaymentService
	midtrans   *services.MidtransService
}

func NewPaymentHandler(db *gorm.DB, svc *services.ObligationService, paymentSvc *services.PaymentService, midtrans *services.MidtransService) *PaymentHandler {
	return &PaymentHandler{db: db, svc: svc, paymentSvc: paymentSvc, midtrans: midtrans}
}

// ApplyPayment records an operator-entered payment against an obligation and
// reports the regeneration decision. A failed automatic regeneration is
// surfaced as a separate field: the payment itself is committed.
func (h *PaymentHandler) ApplyPayment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid obligation ID")
	}

	var req ApplyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.svc.ApplyPayment(c.Request().Context(), uint(id), engine.Payment{
		Amount:          req.Amount,
		Method:          models.PaymentMethod(req.Method),
		SupplementalQty: req.SupplementalQty,
	}, models.PaymentGatewayManual)
	if err != nil {
		return err
	}

	resp := map[string]interface{}{
		"obligation":   toResponse(result.Obligation, time.Now()),
		"regeneration": result.Decision,
	}
	if result.RegenerationErr != nil {
		// payment stands; only the next cycle's creation failed and may be
		// retried via the regeneration endpoint
		resp["regeneration_error"] = result.RegenerationErr.Error()
	}
	return c.JSON(http.StatusOK, resp)
}

// InitiateCheckout starts a gateway checkout session for the obligation's
// pending balance
func (h *PaymentHandler) InitiateCheckout(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid obligation ID")
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	o, err := h.svc.Get(c.Request().Context(), uint(id))
	if err != nil {
		return err
	}
	if o.Category.RequiresSupplementalQty() {
		return echo.NewHTTPError(http.StatusBadRequest,
			"This category requires a supplemental quantity; record the payment manually")
	}

	result, err := h.paymentSvc.InitiateCheckout(o, req.ForceNew, req.CallbackURL)
	if err != nil {
		if errors.Is(err, services.ErrNonIntegerBalance) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to create checkout session: "+err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token":        result.Token,
		"redirect_url": result.RedirectURL,
		"is_existing":  result.IsExisting,
	})
}

// MidtransCallback handles gateway notifications. Settlements flow through
// the same payment path as manual payments.
func (h *PaymentHandler) MidtransCallback(c echo.Context) error {
	var notificationPayload map[string]interface{}
	if err := c.Bind(&notificationPayload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	// keep the raw payload for audit
	rawPayload, _ := json.Marshal(notificationPayload)
	h.db.Create(&models.PaymentCallbackHistory{
		PaymentGateway: models.PaymentGatewayMidtrans,
		Metadata:       rawPayload,
	})

	orderID, _ := notificationPayload["order_id"].(string)
	transactionStatus, _ := notificationPayload["transaction_status"].(string)
	fraudStatus, _ := notificationPayload["fraud_status"].(string)
	statusCode, _ := notificationPayload["status_code"].(string)
	grossAmtStr, _ := notificationPayload["gross_amount"].(string)
	signatureKey, _ := notificationPayload["signature_key"].(string)

	if !h.midtrans.VerifySignature(orderID, statusCode, grossAmtStr, signatureKey) {
		return echo.NewHTTPError(http.StatusForbidden, "Invalid notification signature")
	}

	// Order ID format: obligation-{id}-{timestamp}
	parts := strings.Split(orderID, "-")
	if len(parts) < 3 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid order ID format")
	}
	obligationID, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid obligation ID in order ID")
	}

	settled := transactionStatus == "settlement" ||
		(transactionStatus == "capture" && fraudStatus == "accept")

	if settled {
		amount, err := decimal.NewFromString(grossAmtStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid gross amount")
		}

		_, err = h.svc.ApplyPayment(c.Request().Context(), uint(obligationID), engine.Payment{
			Amount: amount,
			Method: models.MethodCard,
		}, models.PaymentGatewayMidtrans)
		if err != nil && !errors.Is(err, engine.ErrAlreadyPaid) {
			// duplicate notifications for a settled order are expected; any
			// other failure must surface so the gateway retries
			return err
		}
		h.paymentSvc.CloseSession(uint(obligationID))
	} else if transactionStatus == "deny" || transactionStatus == "expire" || transactionStatus == "cancel" {
		h.paymentSvc.CloseSession(uint(obligationID))
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
