package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentRecord is the audit row for a payment applied against an obligation
type PaymentRecord struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	ObligationID        uint            `gorm:"index" json:"obligation_id"`
	LinkedTransactionID uint            `gorm:"index" json:"linked_transaction_id"`
	Amount              decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount"`
	PaymentMethod       PaymentMethod   `gorm:"type:varchar(50)" json:"payment_method"`
	PaymentGateway      PaymentGateway  `gorm:"type:varchar(50);default:'manual'" json:"payment_gateway"`
	SupplementalQty     int             `json:"supplemental_qty,omitempty"`
	PaymentDate         time.Time       `json:"payment_date"`

	// Relationships
	Obligation PayableObligation `gorm:"foreignKey:ObligationID" json:"obligation,omitempty"`
}
