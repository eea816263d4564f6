package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"payables_app_echo/internal/models"
)

func TestEffectiveStatus(t *testing.T) {
	today := time.Date(2024, 3, 15, 10, 30, 0, 0, time.Local)

	tests := []struct {
		name       string
		status     models.ObligationStatus
		amount     string
		amountPaid string
		dueDate    time.Time
		expected   models.ObligationStatus
	}{
		{
			name:       "paid is terminal regardless of date",
			status:     models.StatusPaid,
			amount:     "1000.00",
			amountPaid: "1000.00",
			dueDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
			expected:   models.StatusPaid,
		},
		{
			name:       "unpaid and overdue",
			status:     models.StatusPending,
			amount:     "1000.00",
			amountPaid: "0",
			dueDate:    time.Date(2024, 3, 14, 0, 0, 0, 0, time.Local),
			expected:   models.StatusOverdue,
		},
		{
			name:       "partial payment overrides lateness",
			status:     models.StatusPending,
			amount:     "1000.00",
			amountPaid: "250.00",
			dueDate:    time.Date(2024, 3, 14, 0, 0, 0, 0, time.Local),
			expected:   models.StatusInProgress,
		},
		{
			name:       "due today is still pending",
			status:     models.StatusPending,
			amount:     "1000.00",
			amountPaid: "0",
			dueDate:    time.Date(2024, 3, 15, 23, 0, 0, 0, time.Local),
			expected:   models.StatusPending,
		},
		{
			name:       "due in the future is pending",
			status:     models.StatusPending,
			amount:     "1000.00",
			amountPaid: "0",
			dueDate:    time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local),
			expected:   models.StatusPending,
		},
		{
			name:       "partial payment before due date is in progress",
			status:     models.StatusPending,
			amount:     "1000.00",
			amountPaid: "999.99",
			dueDate:    time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local),
			expected:   models.StatusInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := models.PayableObligation{
				Status:     tt.status,
				Amount:     decimal.RequireFromString(tt.amount),
				AmountPaid: decimal.RequireFromString(tt.amountPaid),
				DueDate:    tt.dueDate,
			}
			if got := EffectiveStatus(o, today); got != tt.expected {
				t.Errorf("EffectiveStatus = %q; want %q", got, tt.expected)
			}
		})
	}
}

func TestEffectiveStatusIsIdempotentAndPure(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	o := models.PayableObligation{
		Status:     models.StatusPending,
		Amount:     decimal.RequireFromString("500.00"),
		AmountPaid: decimal.RequireFromString("100.00"),
		DueDate:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local),
	}
	before := o

	first := EffectiveStatus(o, today)
	second := EffectiveStatus(o, today)

	if first != second {
		t.Errorf("two calls with equal inputs returned %q then %q", first, second)
	}
	if o.Status != before.Status || !o.AmountPaid.Equal(before.AmountPaid) {
		t.Error("EffectiveStatus mutated its input")
	}
}
