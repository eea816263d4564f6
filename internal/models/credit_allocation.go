package models

import (
	"time"

	"gorm.io/gorm"
)

// CreditAllocation records a supplemental quantity (credits or platform
// licenses purchased) forwarded to the allocator alongside a payment
type CreditAllocation struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	ObligationID    uint      `gorm:"index" json:"obligation_id"`
	PaymentRecordID uint      `gorm:"index" json:"payment_record_id"`
	Category        Category  `gorm:"type:varchar(50)" json:"category"`
	Quantity        int       `json:"quantity"`
	AllocatedAt     time.Time `json:"allocated_at"`

	// Relationships
	Obligation    PayableObligation `gorm:"foreignKey:ObligationID" json:"obligation,omitempty"`
	PaymentRecord PaymentRecord     `gorm:"foreignKey:PaymentRecordID" json:"payment_record,omitempty"`
}
