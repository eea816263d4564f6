package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"payables_app_echo/internal/models"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// ErrNonIntegerBalance is returned when a checkout is attempted for a pending
// balance with cents. The gateway charges whole currency units only, so a
// rounded charge could never be applied back without breaking the balance
// bookkeeping; fractional balances must be recorded manually.
var ErrNonIntegerBalance = errors.New("pending balance has cents; gateway checkout needs a whole amount, record the payment manually")

// PaymentService orchestrates gateway checkout sessions for obligations.
// Settlement always flows back through ObligationService.ApplyPayment so
// gateway payments obey the same invariants as operator-recorded ones.
type PaymentService struct {
	db             *gorm.DB
	midtransClient *MidtransService
}

func NewPaymentService(db *gorm.DB, midtransClient *MidtransService) *PaymentService {
	return &PaymentService{
		db:             db,
		midtransClient: midtransClient,
	}
}

// CheckActiveSession checks if there is an active session for the obligation.
// Returns the session if active and valid, otherwise nil or error
func (s *PaymentService) CheckActiveSession(obligationID uint) (*models.PaymentSession, error) {
	var existingSession models.PaymentSession
	err := s.db.Where("obligation_id = ? AND is_active = ?", obligationID, true).Order("created_at desc").First(&existingSession).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // No active session
		}
		return nil, err
	}
	return &existingSession, nil
}

// InitiateCheckoutResult holds the result of an initiation attempt
type InitiateCheckoutResult struct {
	Token       string
	RedirectURL string
	IsExisting  bool
}

// InitiateCheckout starts or resumes a gateway checkout session for the
// obligation's pending balance
func (s *PaymentService) InitiateCheckout(o *models.PayableObligation, forceNew bool, callbackURL string) (*InitiateCheckoutResult, error) {
	if o.Status == models.StatusPaid {
		return nil, fmt.Errorf("obligation is already paid")
	}
	pending := o.PendingBalance()
	if !pending.Equal(pending.Truncate(0)) {
		return nil, ErrNonIntegerBalance
	}

	// 1. Check for existing active session
	existingSession, err := s.CheckActiveSession(o.ID)
	if err != nil {
		return nil, err
	}

	if existingSession != nil {
		// active session exists, check status with Midtrans
		statusResp, err := s.midtransClient.CheckTransaction(existingSession.OrderID)
		if err == nil {
			// Case 1: Payment already successful
			if statusResp.TransactionStatus == "settlement" || statusResp.TransactionStatus == "capture" {
				return nil, fmt.Errorf("payment already made")
			}

			// Case 2: Payment failed/expired/canceled
			if statusResp.TransactionStatus == "deny" || statusResp.TransactionStatus == "expire" || statusResp.TransactionStatus == "cancel" || statusResp.TransactionStatus == "failure" {
				existingSession.IsActive = false
				s.db.Save(existingSession)
				// Proceed to create new
			} else {
				// Case 3: Payment is Pending
				if forceNew {
					s.midtransClient.CancelTransaction(existingSession.OrderID)
					existingSession.IsActive = false
					s.db.Save(existingSession)
					// Proceed to create new
				} else {
					// Reuse existing
					var midtransResp snap.Response
					if err := json.Unmarshal(existingSession.ResponseMetadata, &midtransResp); err == nil {
						return &InitiateCheckoutResult{
							Token:       midtransResp.Token,
							RedirectURL: midtransResp.RedirectURL,
							IsExisting:  true,
						}, nil
					}
					// If unmarshal fails, treat as broken
					existingSession.IsActive = false
					s.db.Save(existingSession)
				}
			}
		} else {
			// Check failed, assume session is invalid/broken locally
			existingSession.IsActive = false
			s.db.Save(existingSession)
		}
	}

	// 2. Create New Transaction for the pending balance
	orderID := fmt.Sprintf("obligation-%d-%d", o.ID, time.Now().Unix())
	grossAmt := pending.IntPart()

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: grossAmt,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    fmt.Sprintf("obligation-%d", o.ID),
				Name:  fmt.Sprintf("Payment for folio %s", o.Folio),
				Price: grossAmt,
				Qty:   1,
			},
		},
		Callbacks: &snap.Callbacks{
			Finish: callbackURL,
		},
	}

	resp, err := s.midtransClient.CreateTransaction(orderID, grossAmt, req)
	if err != nil {
		return nil, err
	}

	// 3. Create Session Record
	reqBytes, _ := json.Marshal(req)
	respBytes, _ := json.Marshal(resp)

	session := models.PaymentSession{
		ObligationID:     o.ID,
		PaymentGateway:   models.PaymentGatewayMidtrans,
		OrderID:          orderID,
		IsActive:         true,
		RequestMetadata:  reqBytes,
		ResponseMetadata: respBytes,
	}
	s.db.Create(&session)

	return &InitiateCheckoutResult{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
		IsExisting:  false,
	}, nil
}

// CloseSession deactivates the active session for an obligation, if any
func (s *PaymentService) CloseSession(obligationID uint) {
	s.db.Model(&models.PaymentSession{}).
		Where("obligation_id = ? AND is_active = ?", obligationID, true).
		Update("is_active", false)
}
