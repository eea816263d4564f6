package engine

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"payables_app_echo/internal/models"
)

// IntervalDays maps a recurrence scheme to its renewal interval in days.
// The mapping is fixed and exhaustive; an unknown scheme is a programming
// error and fails fast.
func IntervalDays(s models.Scheme) int {
	switch s {
	case models.SchemeSingle:
		return 0
	case models.SchemeWeekly:
		return 7
	case models.SchemeBiweekly:
		return 14
	case models.SchemeMonthly:
		return 30
	case models.SchemeBimonthly:
		return 60
	case models.SchemeQuarterly:
		return 90
	case models.SchemeSemiannual:
		return 180
	case models.SchemeAnnual:
		return 365
	}
	panic(fmt.Sprintf("engine: unknown scheme %q", s))
}

// NextCycleStart computes the start date of the next cycle after the final
// installment due on lastDueDate
func NextCycleStart(lastDueDate time.Time, s models.Scheme) time.Time {
	return lastDueDate.AddDate(0, 0, IntervalDays(s))
}

// Recurrence builds the RRULE projection of a scheme for calendar feeds.
// Day-count intervals are kept identical to IntervalDays. Returns nil for
// the single scheme, which has no recurrence.
func Recurrence(s models.Scheme, start time.Time) (*rrule.RRule, error) {
	if s == models.SchemeSingle {
		return nil, nil
	}
	return rrule.NewRRule(rrule.ROption{
		Freq:     rrule.DAILY,
		Interval: IntervalDays(s),
		Dtstart:  start,
	})
}

// Occurrences projects the due dates of a recurring obligation falling within
// [from, until], inclusive. Single-scheme obligations project their own due
// date only, and only when it falls inside the window.
func Occurrences(s models.Scheme, start, from, until time.Time) ([]time.Time, error) {
	if s == models.SchemeSingle {
		if !start.Before(from) && !start.After(until) {
			return []time.Time{start}, nil
		}
		return nil, nil
	}

	rule, err := Recurrence(s, start)
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence rule: %w", err)
	}
	return rule.Between(from, until, true), nil
}
