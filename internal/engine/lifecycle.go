package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"payables_app_echo/internal/models"
)

// Edits are the direct-edit fields allowed while an obligation is pending.
// Nil fields are left untouched.
type Edits struct {
	DueDate       *time.Time
	Amount        *decimal.Decimal
	PaymentMethod *models.PaymentMethod
	Note          *string
}

// ApplyEdits validates direct edits and returns an updated copy; on error the
// obligation is returned unchanged. Paid obligations are immutable. A new
// amount must stay strictly above what was already paid: a pending row can
// never carry a zero balance, only ApplyPayment settles an obligation.
func ApplyEdits(o models.PayableObligation, e Edits) (models.PayableObligation, error) {
	if o.Status != models.StatusPending {
		return o, ErrObligationImmutable
	}
	if e.Amount != nil {
		if !e.Amount.IsPositive() {
			return o, ErrInvalidAmount
		}
		if o.AmountPaid.IsPositive() && e.Amount.LessThanOrEqual(o.AmountPaid) {
			return o, ErrInvalidAmount
		}
	}
	if e.PaymentMethod != nil && !e.PaymentMethod.Valid() {
		return o, ErrInvalidMethod
	}

	if e.DueDate != nil {
		o.DueDate = *e.DueDate
	}
	if e.Amount != nil {
		o.Amount = *e.Amount
	}
	if e.PaymentMethod != nil {
		o.PaymentMethod = *e.PaymentMethod
	}
	if e.Note != nil {
		o.Note = *e.Note
	}
	return o, nil
}

// CanDelete reports whether an obligation may be destroyed. Equipment
// linkage blocks deletion regardless of status, and paid obligations are
// never deletable.
func CanDelete(o models.PayableObligation) error {
	if o.LinkedEquipmentRef != nil && *o.LinkedEquipmentRef != "" {
		return ErrEquipmentLinked
	}
	if o.Status == models.StatusPaid {
		return ErrAlreadyPaid
	}
	return nil
}
