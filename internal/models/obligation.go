package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Scheme is the recurrence pattern of an obligation cycle
type Scheme string

const (
	SchemeSingle     Scheme = "single"
	SchemeWeekly     Scheme = "weekly"
	SchemeBiweekly   Scheme = "biweekly"
	SchemeMonthly    Scheme = "monthly"
	SchemeBimonthly  Scheme = "bimonthly"
	SchemeQuarterly  Scheme = "quarterly"
	SchemeSemiannual Scheme = "semiannual"
	SchemeAnnual     Scheme = "annual"
)

// ObligationStatus represents the status of a payable obligation.
// Only StatusPending and StatusPaid are ever persisted; StatusInProgress and
// StatusOverdue are derived on read (see engine.EffectiveStatus).
type ObligationStatus string

const (
	StatusPending    ObligationStatus = "pending"
	StatusInProgress ObligationStatus = "in_progress"
	StatusOverdue    ObligationStatus = "overdue"
	StatusPaid       ObligationStatus = "paid"
)

// PaymentMethod is the enumerated payment-method code
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
	MethodCard     PaymentMethod = "card"
	MethodCheck    PaymentMethod = "check"
)

// Valid reports whether m is a recognized payment-method code
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodTransfer, MethodCard, MethodCheck:
		return true
	}
	return false
}

// Category classifies an obligation for payment handling
type Category string

const (
	CategoryService         Category = "service"
	CategoryRent            Category = "rent"
	CategoryEquipment       Category = "equipment"
	CategoryCredits         Category = "credits"
	CategoryPlatformLicense Category = "platform_license"
)

// RequiresSupplementalQty reports whether a payment against this category must
// carry a supplemental quantity (credits/licenses purchased) for the allocator
func (c Category) RequiresSupplementalQty() bool {
	return c == CategoryCredits || c == CategoryPlatformLicense
}

// PayableObligation is one installment of money owed
type PayableObligation struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Folio       string `gorm:"type:varchar(100);index" json:"folio"`
	FolioSuffix string `gorm:"type:varchar(20)" json:"folio_suffix,omitempty"` // distinguishes linked SIM obligations sharing a folio

	DueDate    time.Time       `gorm:"index" json:"due_date"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount"`
	AmountPaid decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount_paid"`

	PaymentMethod PaymentMethod    `gorm:"type:varchar(50)" json:"payment_method"`
	Status        ObligationStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"` // persisted: pending or paid only
	Note          string           `gorm:"type:text" json:"note,omitempty"`

	Scheme            Scheme `gorm:"type:varchar(20);default:'single'" json:"scheme"`
	InstallmentNumber int    `gorm:"default:1" json:"installment_number"`
	TotalInstallments int    `gorm:"default:1" json:"total_installments"`

	LinkedTransactionID uint    `gorm:"index" json:"linked_transaction_id"`
	LinkedEquipmentRef  *string `gorm:"type:varchar(100)" json:"linked_equipment_ref,omitempty"`

	Category    Category `gorm:"type:varchar(50)" json:"category"`
	AccountName string   `gorm:"type:varchar(255);index" json:"account_name"`

	// Relationships
	PaymentRecords []PaymentRecord `gorm:"foreignKey:ObligationID" json:"payment_records,omitempty"`
}

// PendingBalance is the derived remainder owed; never persisted independently
func (o PayableObligation) PendingBalance() decimal.Decimal {
	return o.Amount.Sub(o.AmountPaid)
}
