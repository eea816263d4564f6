package engine

import (
	"time"

	"payables_app_echo/internal/models"
)

// atMidnight normalizes a timestamp to local midnight of its day
func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EffectiveStatus computes the displayed status of an obligation from its
// persisted status and the current date. Pure; the obligation is never
// mutated and the record itself never stores in_progress or overdue, so no
// background job is needed to expire obligations as clock time passes.
//
// A partial payment takes display precedence over lateness.
func EffectiveStatus(o models.PayableObligation, today time.Time) models.ObligationStatus {
	if o.Status == models.StatusPaid {
		return models.StatusPaid
	}

	if o.AmountPaid.IsPositive() && o.AmountPaid.LessThan(o.Amount) {
		return models.StatusInProgress
	}

	if atMidnight(today).After(atMidnight(o.DueDate)) {
		return models.StatusOverdue
	}
	return models.StatusPending
}
