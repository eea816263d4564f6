package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"payables_app_echo/internal/engine"
	"payables_app_echo/internal/models"
	"payables_app_echo/internal/services"
)

type ObligationHandler struct {
	svc   *services.ObligationService
	regen *services.RegenerationService
}

func NewObligationHandler(svc *services.ObligationService, regen *services.RegenerationService) *ObligationHandler {
	return &ObligationHandler{svc: svc, regen: regen}
}

func toResponse(o models.PayableObligation, today time.Time) ObligationResponse {
	return ObligationResponse{
		PayableObligation: o,
		EffectiveStatus:   engine.EffectiveStatus(o, today),
		PendingBalance:    o.PendingBalance(),
	}
}

// ListObligations filters and orders obligations for presentation. The
// status filter matches the derived effective status, not the persisted one.
func (h *ObligationHandler) ListObligations(c echo.Context) error {
	filter := engine.Filter{
		Status:      c.QueryParam("status"),
		AccountName: c.QueryParam("account"),
		Folio:       c.QueryParam("folio"),
		SortDesc:    c.QueryParam("sort_order") == "desc",
		Today:       time.Now(),
	}

	if fromStr := c.QueryParam("from"); fromStr != "" {
		from, err := time.ParseInLocation("2006-01-02", fromStr, time.Local)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
		}
		filter.From = &from
	}
	if toStr := c.QueryParam("to"); toStr != "" {
		to, err := time.ParseInLocation("2006-01-02", toStr, time.Local)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
		}
		filter.To = &to
	}

	obligations, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	out := make([]ObligationResponse, 0, len(obligations))
	for _, o := range obligations {
		out = append(out, toResponse(o, filter.Today))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"obligations": out,
		"count":       len(out),
	})
}

// GetObligation fetches a single obligation by ID
func (h *ObligationHandler) GetObligation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid obligation ID")
	}

	o, err := h.svc.Get(c.Request().Context(), uint(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toResponse(*o, time.Now()))
}

// GetObligationByFolio supports single-record drill-down from other screens
func (h *ObligationHandler) GetObligationByFolio(c echo.Context) error {
	o, err := h.svc.GetByFolio(c.Request().Context(), c.Param("folio"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toResponse(*o, time.Now()))
}

// UpdateObligation applies direct edits while the obligation is pending
func (h *ObligationHandler) UpdateObligation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid obligation ID")
	}

	var req UpdateObligationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	edits := engine.Edits{
		Amount: req.Amount,
		Note:   req.Note,
	}
	if req.DueDate != nil {
		due, err := time.ParseInLocation("2006-01-02", *req.DueDate, time.Local)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid due date, expected YYYY-MM-DD")
		}
		edits.DueDate = &due
	}
	if req.PaymentMethod != nil {
		m := models.PaymentMethod(*req.PaymentMethod)
		edits.PaymentMethod = &m
	}

	o, err := h.svc.Update(c.Request().Context(), uint(id), edits)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toResponse(*o, time.Now()))
}

// DeleteObligation removes an obligation unless equipment linkage or paid
// status blocks it
func (h *ObligationHandler) DeleteObligation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid obligation ID")
	}

	if err := h.svc.Delete(c.Request().Context(), uint(id)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

// ConfirmRegeneration spawns the next cycle for the operator-confirmed
// branch, with an optional amount override
func (h *ObligationHandler) ConfirmRegeneration(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid obligation ID")
	}

	var req ConfirmRegenerationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	regenReq, err := h.svc.ConfirmRegeneration(c.Request().Context(), uint(id), req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, regenReq)
}

// RetryRegeneration re-drives a failed regeneration request manually
func (h *ObligationHandler) RetryRegeneration(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid regeneration request ID")
	}

	regenReq, err := h.regen.Retry(c.Request().Context(), uint(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, regenReq)
}
