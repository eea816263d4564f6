package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"payables_app_echo/internal/models"
)

func paidObligation(scheme models.Scheme, installment, total int) models.PayableObligation {
	amount := decimal.RequireFromString("1000.00")
	return models.PayableObligation{
		ID:                  7,
		DueDate:             time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local),
		Amount:              amount,
		AmountPaid:          amount,
		Status:              models.StatusPaid,
		PaymentMethod:       models.MethodTransfer,
		Scheme:              scheme,
		InstallmentNumber:   installment,
		TotalInstallments:   total,
		LinkedTransactionID: 42,
	}
}

func TestDecideRegenerationGating(t *testing.T) {
	tests := []struct {
		name     string
		build    func() models.PayableObligation
		expected RegenerationKind
	}{
		{
			name:     "single scheme is terminal",
			build:    func() models.PayableObligation { return paidObligation(models.SchemeSingle, 1, 1) },
			expected: RegenerationNone,
		},
		{
			name:     "installment 2 of 3 triggers nothing",
			build:    func() models.PayableObligation { return paidObligation(models.SchemeMonthly, 2, 3) },
			expected: RegenerationNone,
		},
		{
			name:     "last installment without equipment link requires confirmation",
			build:    func() models.PayableObligation { return paidObligation(models.SchemeMonthly, 3, 3) },
			expected: RegenerationRequiresConfirmation,
		},
		{
			name: "last installment with equipment link regenerates automatically",
			build: func() models.PayableObligation {
				o := paidObligation(models.SchemeMonthly, 3, 3)
				sim := "SIM-00891"
				o.LinkedEquipmentRef = &sim
				return o
			},
			expected: RegenerationAutomatic,
		},
		{
			name: "unpaid obligation never regenerates",
			build: func() models.PayableObligation {
				o := paidObligation(models.SchemeMonthly, 3, 3)
				o.Status = models.StatusPending
				o.AmountPaid = decimal.Zero
				return o
			},
			expected: RegenerationNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := DecideRegeneration(tt.build())
			if decision.Kind != tt.expected {
				t.Fatalf("Kind = %q; want %q", decision.Kind, tt.expected)
			}
			if tt.expected == RegenerationNone && decision.Params != nil {
				t.Error("none decision carried params")
			}
			if tt.expected != RegenerationNone && decision.Params == nil {
				t.Error("decision is missing params")
			}
		})
	}
}

func TestDecideRegenerationParams(t *testing.T) {
	o := paidObligation(models.SchemeMonthly, 3, 3)

	decision := DecideRegeneration(o)
	if decision.Kind != RegenerationRequiresConfirmation {
		t.Fatalf("Kind = %q; want requires_confirmation", decision.Kind)
	}

	p := decision.Params
	if p.LinkedTransactionID != 42 {
		t.Errorf("LinkedTransactionID = %d; want 42", p.LinkedTransactionID)
	}
	if !p.LastDueDate.Equal(o.DueDate) {
		t.Errorf("LastDueDate = %v; want %v", p.LastDueDate, o.DueDate)
	}
	wantNext := o.DueDate.AddDate(0, 0, 30)
	if !p.NextStartDate.Equal(wantNext) {
		t.Errorf("NextStartDate = %v; want %v (due + 30 days)", p.NextStartDate, wantNext)
	}
	if !p.Amount.Equal(o.Amount) {
		t.Errorf("suggested Amount = %s; want %s", p.Amount, o.Amount)
	}
	if p.PaymentMethod != models.MethodTransfer {
		t.Errorf("PaymentMethod = %q; want transfer", p.PaymentMethod)
	}
}

// Quarterly obligation, installment 4 of 4, paid in full via transfer:
// the payment lands, the decider asks for confirmation with the same amount
// suggested and the next due date 90 days out.
func TestQuarterlyFinalInstallmentEndToEnd(t *testing.T) {
	o := models.PayableObligation{
		ID:                  11,
		DueDate:             time.Date(2024, 9, 15, 0, 0, 0, 0, time.Local),
		Amount:              decimal.RequireFromString("1000.00"),
		AmountPaid:          decimal.Zero,
		Status:              models.StatusPending,
		Scheme:              models.SchemeQuarterly,
		InstallmentNumber:   4,
		TotalInstallments:   4,
		LinkedTransactionID: 99,
		Category:            models.CategoryService,
	}

	paid, err := ApplyPayment(o, Payment{
		Amount: decimal.RequireFromString("1000.00"),
		Method: models.MethodTransfer,
	})
	if err != nil {
		t.Fatalf("ApplyPayment returned error: %v", err)
	}
	if paid.Status != models.StatusPaid {
		t.Fatalf("status = %q; want paid", paid.Status)
	}
	if !paid.PendingBalance().Equal(decimal.RequireFromString("0.00")) {
		t.Fatalf("PendingBalance = %s; want 0.00", paid.PendingBalance())
	}

	decision := DecideRegeneration(paid)
	if decision.Kind != RegenerationRequiresConfirmation {
		t.Fatalf("Kind = %q; want requires_confirmation", decision.Kind)
	}
	if !decision.Params.Amount.Equal(decimal.RequireFromString("1000.00")) {
		t.Errorf("suggested amount = %s; want 1000.00", decision.Params.Amount)
	}
	wantNext := o.DueDate.AddDate(0, 0, 90)
	if !decision.Params.NextStartDate.Equal(wantNext) {
		t.Errorf("NextStartDate = %v; want %v", decision.Params.NextStartDate, wantNext)
	}
}
