package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"payables_app_echo/internal/models"
)

// AllocatorService applies supplemental quantities (credits/licenses
// purchased) tied to completed payments. The engine only validates and
// forwards the quantity; this collaborator owns the ledger.
type AllocatorService struct {
	db *gorm.DB
}

func NewAllocatorService(db *gorm.DB) *AllocatorService {
	return &AllocatorService{db: db}
}

// Allocate records a credit/license allocation for a payment. Called inside
// the payment transaction so an allocation never exists without its payment.
func (s *AllocatorService) Allocate(ctx context.Context, tx *gorm.DB, record models.PaymentRecord, category models.Category, qty int) error {
	if tx == nil {
		tx = s.db
	}
	allocation := models.CreditAllocation{
		ObligationID:    record.ObligationID,
		PaymentRecordID: record.ID,
		Category:        category,
		Quantity:        qty,
		AllocatedAt:     time.Now(),
	}
	if err := tx.WithContext(ctx).Create(&allocation).Error; err != nil {
		return fmt.Errorf("failed to allocate supplemental quantity: %w", err)
	}
	return nil
}
