package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"payables_app_echo/internal/models"
)

// RegenerationKind tags the outcome of a regeneration decision
type RegenerationKind string

const (
	RegenerationNone                 RegenerationKind = "none"
	RegenerationAutomatic            RegenerationKind = "automatic"
	RegenerationRequiresConfirmation RegenerationKind = "requires_confirmation"
)

// RegenerationParams is the payload handed to the persistence collaborator,
// which expands it into the next cycle's installment records. The decider
// does not enumerate installments itself.
type RegenerationParams struct {
	LinkedTransactionID uint                 `json:"linked_transaction_id"`
	SourceObligationID  uint                 `json:"source_obligation_id"`
	LastDueDate         time.Time            `json:"last_due_date"`
	NextStartDate       time.Time            `json:"next_start_date"`
	Amount              decimal.Decimal      `json:"amount"`
	PaymentMethod       models.PaymentMethod `json:"payment_method"`
}

// RegenerationDecision is the tagged result of DecideRegeneration. For the
// requires_confirmation kind, Params.Amount is a suggestion the operator may
// override before the regeneration request is issued.
type RegenerationDecision struct {
	Kind   RegenerationKind    `json:"kind"`
	Params *RegenerationParams `json:"params,omitempty"`
}

// DecideRegeneration is invoked after a payment leaves an obligation paid and
// decides whether the next recurring cycle must be spawned. Obligations with
// an equipment/SIM link regenerate automatically; the rest require operator
// confirmation.
func DecideRegeneration(o models.PayableObligation) RegenerationDecision {
	if o.Status != models.StatusPaid {
		return RegenerationDecision{Kind: RegenerationNone}
	}
	if o.Scheme == models.SchemeSingle {
		return RegenerationDecision{Kind: RegenerationNone}
	}
	// remaining installments of the current cycle already exist as rows
	if o.InstallmentNumber != o.TotalInstallments {
		return RegenerationDecision{Kind: RegenerationNone}
	}

	params := &RegenerationParams{
		LinkedTransactionID: o.LinkedTransactionID,
		SourceObligationID:  o.ID,
		LastDueDate:         o.DueDate,
		NextStartDate:       NextCycleStart(o.DueDate, o.Scheme),
		Amount:              o.Amount,
		PaymentMethod:       o.PaymentMethod,
	}

	if o.LinkedEquipmentRef != nil && *o.LinkedEquipmentRef != "" {
		return RegenerationDecision{Kind: RegenerationAutomatic, Params: params}
	}
	return RegenerationDecision{Kind: RegenerationRequiresConfirmation, Params: params}
}
