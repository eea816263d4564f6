package engine

import (
	"github.com/shopspring/decimal"

	"payables_app_echo/internal/models"
)

// Payment is a validated payment attempt against an obligation
type Payment struct {
	Amount          decimal.Decimal
	Method          models.PaymentMethod
	SupplementalQty int
}

// ApplyPayment validates a partial or full payment and returns the updated
// obligation. The input is never mutated; on error the obligation is returned
// unchanged. A partial overpayment is rejected, not clamped.
//
// The supplemental quantity is only validated here; applying it belongs to
// the allocator collaborator.
func ApplyPayment(o models.PayableObligation, p Payment) (models.PayableObligation, error) {
	if o.Status == models.StatusPaid {
		return o, ErrAlreadyPaid
	}
	if !p.Amount.IsPositive() {
		return o, ErrInvalidAmount
	}
	if !p.Method.Valid() {
		return o, ErrInvalidMethod
	}
	if o.Category.RequiresSupplementalQty() && p.SupplementalQty <= 0 {
		return o, ErrMissingSupplementalQuantity
	}
	if p.Amount.GreaterThan(o.PendingBalance()) {
		return o, ErrExceedsPendingBalance
	}

	o.AmountPaid = o.AmountPaid.Add(p.Amount)
	o.PaymentMethod = p.Method
	if o.PendingBalance().IsZero() {
		o.Status = models.StatusPaid
	} else {
		// persisted status stays pending; display resolves to in_progress
		o.Status = models.StatusPending
	}
	return o, nil
}
