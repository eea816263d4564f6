package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegenerationStatus represents the status of a next-cycle creation request
type RegenerationStatus string

const (
	RegenerationStatusPending RegenerationStatus = "pending"
	RegenerationStatusDone    RegenerationStatus = "done"
	RegenerationStatusFailed  RegenerationStatus = "failed"
)

// RegenerationRequest tracks a request to spawn the next recurring cycle after
// the final installment of the current cycle was fully paid. A failed request
// never rolls back the originating payment; it stays retryable here.
type RegenerationRequest struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	LinkedTransactionID uint            `gorm:"index:idx_regen_tx_start,priority:1" json:"linked_transaction_id"`
	SourceObligationID  uint            `gorm:"index" json:"source_obligation_id"`
	LastDueDate         time.Time       `json:"last_due_date"`
	NextStartDate       time.Time       `gorm:"index:idx_regen_tx_start,priority:2" json:"next_start_date"`
	NewAmount           decimal.Decimal `gorm:"type:decimal(15,2)" json:"new_amount"`
	PaymentMethod       PaymentMethod   `gorm:"type:varchar(50)" json:"payment_method"`

	Status      RegenerationStatus `gorm:"type:varchar(20);index" json:"status"`
	Attempts    int                `json:"attempts"`
	MaxAttempts int                `gorm:"default:3" json:"max_attempts"`
	LastError   string             `gorm:"type:text" json:"last_error,omitempty"`
	LastRun     *time.Time         `json:"last_run,omitempty"`
}
