package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"payables_app_echo/internal/engine"
	"payables_app_echo/internal/models"
)

// ErrNoRegenerationDue is returned when a regeneration confirmation is issued
// for an obligation the decider resolved to none
var ErrNoRegenerationDue = errors.New("obligation does not require regeneration")

// ObligationService is the persistence collaborator around the engine. It
// serializes per-obligation writes with a row lock so two concurrent partial
// payments cannot both pass the balance check against a stale balance.
type ObligationService struct {
	db        *gorm.DB
	allocator *AllocatorService
	regen     *RegenerationService
}

func NewObligationService(db *gorm.DB, allocator *AllocatorService, regen *RegenerationService) *ObligationService {
	return &ObligationService{db: db, allocator: allocator, regen: regen}
}

// Get fetches an obligation by ID
func (s *ObligationService) Get(ctx context.Context, id uint) (*models.PayableObligation, error) {
	var o models.PayableObligation
	if err := s.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByFolio fetches an obligation by its exact folio, used for
// single-record drill-down from other screens
func (s *ObligationService) GetByFolio(ctx context.Context, folio string) (*models.PayableObligation, error) {
	var o models.PayableObligation
	if err := s.db.WithContext(ctx).Where("folio = ?", folio).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByTransaction fetches all obligations belonging to a transaction cycle
func (s *ObligationService) ListByTransaction(ctx context.Context, txID uint) ([]models.PayableObligation, error) {
	var out []models.PayableObligation
	err := s.db.WithContext(ctx).
		Where("linked_transaction_id = ?", txID).
		Order("installment_number asc").
		Find(&out).Error
	return out, err
}

// List loads candidate rows and applies the engine's query/sort service.
// Status filtering happens in memory against the effective status, which is
// derived and never a column.
func (s *ObligationService) List(ctx context.Context, f engine.Filter) ([]models.PayableObligation, error) {
	query := s.db.WithContext(ctx).Model(&models.PayableObligation{})
	if f.AccountName != "" {
		query = query.Where("account_name = ?", f.AccountName)
	}
	if f.Folio != "" {
		query = query.Where("folio = ?", f.Folio)
	}

	var candidates []models.PayableObligation
	if err := query.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch obligations: %w", err)
	}
	return engine.Query(candidates, f), nil
}

// ApplyPaymentResult carries the payment outcome plus the regeneration
// decision. RegenerationErr reports a failed automatic spawn as a distinct,
// recoverable error: the payment itself is committed and never rolled back.
type ApplyPaymentResult struct {
	Obligation      models.PayableObligation
	Record          models.PaymentRecord
	Decision        engine.RegenerationDecision
	RegenerationErr error
}

// ApplyPayment validates and applies a payment under a read-modify-write
// transaction with a row-level lock, then runs the regeneration decider.
func (s *ObligationService) ApplyPayment(ctx context.Context, obligationID uint, payment engine.Payment, gateway models.PaymentGateway) (*ApplyPaymentResult, error) {
	var result ApplyPaymentResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.PayableObligation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, obligationID).Error; err != nil {
			return err
		}

		updated, err := engine.ApplyPayment(o, payment)
		if err != nil {
			return err
		}

		if err := tx.Save(&updated).Error; err != nil {
			return fmt.Errorf("failed to persist payment: %w", err)
		}

		record := models.PaymentRecord{
			ObligationID:        updated.ID,
			LinkedTransactionID: updated.LinkedTransactionID,
			Amount:              payment.Amount,
			PaymentMethod:       payment.Method,
			PaymentGateway:      gateway,
			SupplementalQty:     payment.SupplementalQty,
			PaymentDate:         time.Now(),
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		if updated.Category.RequiresSupplementalQty() {
			if err := s.allocator.Allocate(ctx, tx, record, updated.Category, payment.SupplementalQty); err != nil {
				return err
			}
		}

		result.Obligation = updated
		result.Record = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Decision = engine.DecideRegeneration(result.Obligation)
	if result.Decision.Kind == engine.RegenerationAutomatic {
		if _, err := s.regen.Regenerate(ctx, *result.Decision.Params); err != nil {
			if !errors.Is(err, ErrDuplicateRegeneration) {
				result.RegenerationErr = err
			}
		}
	}
	return &result, nil
}

// Update applies direct edits under a row lock; engine.ApplyEdits owns the
// validation (pending-only, amount strictly above what was already paid).
func (s *ObligationService) Update(ctx context.Context, id uint, edits engine.Edits) (*models.PayableObligation, error) {
	var o models.PayableObligation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, id).Error; err != nil {
			return err
		}
		updated, err := engine.ApplyEdits(o, edits)
		if err != nil {
			return err
		}
		o = updated
		return tx.Save(&o).Error
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Delete removes an obligation if engine.CanDelete allows it.
func (s *ObligationService) Delete(ctx context.Context, id uint) error {
	var o models.PayableObligation
	if err := s.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return err
	}
	if err := engine.CanDelete(o); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&o).Error
}

// ConfirmRegeneration issues the regeneration request for the
// operator-confirmed branch, with an optionally overridden amount
func (s *ObligationService) ConfirmRegeneration(ctx context.Context, obligationID uint, overrideAmount *decimal.Decimal) (*models.RegenerationRequest, error) {
	o, err := s.Get(ctx, obligationID)
	if err != nil {
		return nil, err
	}

	decision := engine.DecideRegeneration(*o)
	if decision.Kind == engine.RegenerationNone {
		return nil, ErrNoRegenerationDue
	}

	params := *decision.Params
	if overrideAmount != nil {
		if !overrideAmount.IsPositive() {
			return nil, engine.ErrInvalidAmount
		}
		params.Amount = *overrideAmount
	}
	return s.regen.Regenerate(ctx, params)
}
