package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"payables_app_echo/internal/models"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestApplyEditsAmountStaysAboveAmountPaid(t *testing.T) {
	tests := []struct {
		name    string
		paid    string
		amount  string
		wantErr error
	}{
		{name: "amount below paid rejected", paid: "400.00", amount: "399.99", wantErr: ErrInvalidAmount},
		{name: "amount equal to paid rejected", paid: "400.00", amount: "400.00", wantErr: ErrInvalidAmount},
		{name: "amount one cent above paid accepted", paid: "400.00", amount: "400.01"},
		{name: "zero amount rejected", paid: "0", amount: "0", wantErr: ErrInvalidAmount},
		{name: "negative amount rejected", paid: "0", amount: "-1.00", wantErr: ErrInvalidAmount},
		{name: "any positive amount ok when nothing paid", paid: "0", amount: "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testObligation()
			o.AmountPaid = decimal.RequireFromString(tt.paid)

			got, err := ApplyEdits(o, Edits{Amount: decPtr(tt.amount)})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ApplyEdits error = %v; want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if !got.Amount.Equal(o.Amount) {
					t.Error("rejected edit mutated the amount")
				}
				return
			}

			if !got.Amount.Equal(decimal.RequireFromString(tt.amount)) {
				t.Errorf("Amount = %s; want %s", got.Amount, tt.amount)
			}
			// an accepted edit never leaves a pending row with a zero balance
			if got.Status == models.StatusPending && !got.PendingBalance().IsPositive() {
				t.Errorf("pending obligation left with balance %s", got.PendingBalance())
			}
		})
	}
}

func TestApplyEditsRejectsNonPendingObligation(t *testing.T) {
	o := testObligation()
	o.AmountPaid = o.Amount
	o.Status = models.StatusPaid

	_, err := ApplyEdits(o, Edits{Note: ptr("late note")})
	if !errors.Is(err, ErrObligationImmutable) {
		t.Fatalf("ApplyEdits error = %v; want %v", err, ErrObligationImmutable)
	}
}

func TestApplyEditsAppliesFields(t *testing.T) {
	o := testObligation()
	due := time.Date(2024, 7, 15, 0, 0, 0, 0, time.Local)
	method := models.MethodTransfer

	got, err := ApplyEdits(o, Edits{
		DueDate:       &due,
		Amount:        decPtr("1250.00"),
		PaymentMethod: &method,
		Note:          ptr("renegotiated"),
	})
	if err != nil {
		t.Fatalf("ApplyEdits returned error: %v", err)
	}

	if !got.DueDate.Equal(due) {
		t.Errorf("DueDate = %s; want %s", got.DueDate, due)
	}
	if !got.Amount.Equal(decimal.RequireFromString("1250.00")) {
		t.Errorf("Amount = %s; want 1250.00", got.Amount)
	}
	if got.PaymentMethod != models.MethodTransfer {
		t.Errorf("PaymentMethod = %q; want transfer", got.PaymentMethod)
	}
	if got.Note != "renegotiated" {
		t.Errorf("Note = %q; want renegotiated", got.Note)
	}
	// the input copy is untouched
	if !o.Amount.Equal(decimal.RequireFromString("1000.00")) {
		t.Error("ApplyEdits mutated its input")
	}
}

func TestApplyEditsRejectsUnknownMethod(t *testing.T) {
	o := testObligation()
	method := models.PaymentMethod("crypto")

	got, err := ApplyEdits(o, Edits{PaymentMethod: &method, Amount: decPtr("900.00")})
	if !errors.Is(err, ErrInvalidMethod) {
		t.Fatalf("ApplyEdits error = %v; want %v", err, ErrInvalidMethod)
	}
	if !got.Amount.Equal(o.Amount) {
		t.Error("rejected edit applied the amount anyway")
	}
}

func TestCanDelete(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.PayableObligation)
		wantErr error
	}{
		{
			name: "pending without equipment is deletable",
		},
		{
			name: "equipment linkage blocks deletion",
			mutate: func(o *models.PayableObligation) {
				o.LinkedEquipmentRef = ptr("EQ-1042")
			},
			wantErr: ErrEquipmentLinked,
		},
		{
			name: "paid obligation is never deletable",
			mutate: func(o *models.PayableObligation) {
				o.AmountPaid = o.Amount
				o.Status = models.StatusPaid
			},
			wantErr: ErrAlreadyPaid,
		},
		{
			name: "equipment linkage reported even when paid",
			mutate: func(o *models.PayableObligation) {
				o.LinkedEquipmentRef = ptr("EQ-1042")
				o.AmountPaid = o.Amount
				o.Status = models.StatusPaid
			},
			wantErr: ErrEquipmentLinked,
		},
		{
			name: "empty equipment ref does not block",
			mutate: func(o *models.PayableObligation) {
				o.LinkedEquipmentRef = ptr("")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testObligation()
			if tt.mutate != nil {
				tt.mutate(&o)
			}
			if err := CanDelete(o); !errors.Is(err, tt.wantErr) {
				t.Fatalf("CanDelete error = %v; want %v", err, tt.wantErr)
			}
		})
	}
}

func ptr(s string) *string { return &s }
