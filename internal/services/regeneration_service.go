package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"payables_app_echo/internal/engine"
	"payables_app_echo/internal/models"
)

// ErrDuplicateRegeneration is returned when the next cycle already exists for
// the transaction at the computed start date. A client retry after a network
// timeout must not double-spawn a cycle.
var ErrDuplicateRegeneration = errors.New("next cycle already exists for this transaction")

// RegenerationService is the persistence collaborator that expands a
// regeneration request into the next cycle's installment records
type RegenerationService struct {
	db    *gorm.DB
	cache *RedisCache
}

func NewRegenerationService(db *gorm.DB, cache *RedisCache) *RegenerationService {
	return &RegenerationService{db: db, cache: cache}
}

// Regenerate creates the next cycle's obligations from the decider's params.
// The request is persisted first so a failed expansion stays retryable; the
// originating payment is never touched here.
func (s *RegenerationService) Regenerate(ctx context.Context, params engine.RegenerationParams) (*models.RegenerationRequest, error) {
	if s.cache != nil {
		lockKey := fmt.Sprintf("regen:%d:%s", params.LinkedTransactionID, params.NextStartDate.Format("2006-01-02"))
		acquired, err := s.cache.SetNX(ctx, lockKey, params.SourceObligationID, time.Minute)
		if err != nil {
			log.Printf("Regeneration lock check failed, falling back to db guard: %v", err)
		} else if !acquired {
			return nil, ErrDuplicateRegeneration
		}
	}

	req := models.RegenerationRequest{
		LinkedTransactionID: params.LinkedTransactionID,
		SourceObligationID:  params.SourceObligationID,
		LastDueDate:         params.LastDueDate,
		NextStartDate:       params.NextStartDate,
		NewAmount:           params.Amount,
		PaymentMethod:       params.PaymentMethod,
		Status:              models.RegenerationStatusPending,
		MaxAttempts:         3,
	}
	if err := s.db.WithContext(ctx).Create(&req).Error; err != nil {
		return nil, fmt.Errorf("failed to record regeneration request: %w", err)
	}

	if err := s.expand(ctx, &req); err != nil {
		return &req, err
	}
	return &req, nil
}

// Retry re-drives a failed regeneration request
func (s *RegenerationService) Retry(ctx context.Context, requestID uint) (*models.RegenerationRequest, error) {
	var req models.RegenerationRequest
	if err := s.db.WithContext(ctx).First(&req, requestID).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch regeneration request: %w", err)
	}
	if req.Status == models.RegenerationStatusDone {
		return &req, ErrDuplicateRegeneration
	}
	if err := s.expand(ctx, &req); err != nil {
		return &req, err
	}
	return &req, nil
}

// expand creates the installment rows for the next cycle and settles the
// request status. The source obligation supplies the cycle template (scheme,
// installment count, account, category, equipment linkage).
func (s *RegenerationService) expand(ctx context.Context, req *models.RegenerationRequest) error {
	now := time.Now()
	req.Attempts++
	req.LastRun = &now

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var src models.PayableObligation
		if err := tx.First(&src, req.SourceObligationID).Error; err != nil {
			return fmt.Errorf("failed to fetch source obligation: %w", err)
		}

		// duplicate guard: never double-spawn a cycle on client retry
		var existing int64
		if err := tx.Model(&models.PayableObligation{}).
			Where("linked_transaction_id = ? AND due_date = ?", req.LinkedTransactionID, req.NextStartDate).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check existing cycle: %w", err)
		}
		if existing > 0 {
			return ErrDuplicateRegeneration
		}

		interval := engine.IntervalDays(src.Scheme)
		baseFolio := newFolio()
		total := src.TotalInstallments
		if total < 1 {
			total = 1
		}

		for n := 1; n <= total; n++ {
			folio := baseFolio
			if total > 1 {
				folio = fmt.Sprintf("%s/%d", baseFolio, n)
			}
			obligation := models.PayableObligation{
				Folio:               folio,
				FolioSuffix:         src.FolioSuffix,
				DueDate:             req.NextStartDate.AddDate(0, 0, interval*(n-1)),
				Amount:              req.NewAmount,
				AmountPaid:          decimal.Zero,
				PaymentMethod:       req.PaymentMethod,
				Status:              models.StatusPending,
				Scheme:              src.Scheme,
				InstallmentNumber:   n,
				TotalInstallments:   total,
				LinkedTransactionID: req.LinkedTransactionID,
				LinkedEquipmentRef:  src.LinkedEquipmentRef,
				Category:            src.Category,
				AccountName:         src.AccountName,
			}
			if err := tx.Create(&obligation).Error; err != nil {
				return fmt.Errorf("failed to create installment %d: %w", n, err)
			}
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrDuplicateRegeneration) {
			req.Status = models.RegenerationStatusDone
		} else {
			req.Status = models.RegenerationStatusFailed
			req.LastError = err.Error()
		}
		// a request stuck in pending would never be retried by the worker
		if saveErr := s.db.WithContext(ctx).Save(req).Error; saveErr != nil {
			log.Printf("Failed to mark regeneration request %d as %s: %v", req.ID, req.Status, saveErr)
		}
		return err
	}

	req.Status = models.RegenerationStatusDone
	req.LastError = ""
	if err := s.db.WithContext(ctx).Save(req).Error; err != nil {
		return fmt.Errorf("failed to update regeneration request: %w", err)
	}
	return nil
}

// newFolio mints a human-shareable folio for a regenerated cycle
func newFolio() string {
	return "CP-" + strings.ToUpper(uuid.NewString()[:8])
}
