package requests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/ledger"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/notification"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/wallet"
)

var (
	// ErrInvalidType rejects request types other than deposit/withdrawal.
	ErrInvalidType = errors.New("type must be deposit or withdrawal")

	// ErrInvalidAction rejects process actions other than approve/reject.
	ErrInvalidAction = errors.New("action must be approve or reject")

	// ErrAmountOutOfRange rejects amounts outside the configured bounds.
	ErrAmountOutOfRange = errors.New("amount is outside the allowed range")

	// ErrNotOwner indicates the caller does not own the request.
	ErrNotOwner = errors.New("not owner of request")
)

// Service manages the deposit/withdrawal request workflow. Submitting a
// request never moves a balance; only admin approval posts through the
// ledger.
type Service struct {
	repo      Repository
	ledger    ledger.Ledger
	wallets   *wallet.Service
	notifier  notification.Notifier
	minAmount decimal.Decimal
	maxAmount decimal.Decimal
}

// NewService builds the request workflow service. min/max bound the
// requested amount of a single deposit or withdrawal.
func NewService(repo Repository, led ledger.Ledger, wallets *wallet.Service, notifier notification.Notifier, minAmount, maxAmount decimal.Decimal) *Service {
	return &Service{
		repo:      repo,
		ledger:    led,
		wallets:   wallets,
		notifier:  notifier,
		minAmount: minAmount,
		maxAmount: maxAmount,
	}
}

// SubmitInput captures a user's deposit/withdrawal intent.
type SubmitInput struct {
	UserID         uuid.UUID
	Type           string
	Amount         decimal.Decimal
	UserNotes      string
	PaymentMethod  string
	PaymentDetails string
}

// Submit validates the intent and stores it as pending.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (Request, error) {
	if input.Type != TypeDeposit && input.Type != TypeWithdrawal {
		return Request{}, ErrInvalidType
	}
	if !input.Amount.IsPositive() {
		return Request{}, ErrAmountOutOfRange
	}
	if input.Amount.LessThan(s.minAmount) || input.Amount.GreaterThan(s.maxAmount) {
		return Request{}, ErrAmountOutOfRange
	}

	w, err := s.wallets.GetOrCreate(ctx, input.UserID)
	if err != nil {
		return Request{}, err
	}

	req := Request{
		ID:             uuid.New(),
		WalletID:       w.ID,
		UserID:         input.UserID,
		Type:           input.Type,
		Amount:         input.Amount,
		Status:         StatusPending,
		UserNotes:      input.UserNotes,
		PaymentMethod:  input.PaymentMethod,
		PaymentDetails: input.PaymentDetails,
		RequestedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Get returns a request, restricted to its owner unless the caller is an
// admin.
func (s *Service) Get(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) (Request, error) {
	req, err := s.repo.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if !isAdmin && req.UserID != callerID {
		return Request{}, ErrNotOwner
	}
	return req, nil
}

// ListByUser lists the caller's requests.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, page ledger.Page) ([]Request, int64, error) {
	return s.repo.ListByUser(ctx, userID, page)
}

// List lists all requests, optionally filtered by status. Admin only.
func (s *Service) List(ctx context.Context, status string, page ledger.Page) ([]Request, int64, error) {
	if status != "" {
		switch status {
		case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		default:
			return nil, 0, fmt.Errorf("unknown status %q", status)
		}
	}
	return s.repo.List(ctx, status, page)
}

// Process applies an admin decision. Rejection only flips the status.
// Approval first claims the request (the one-shot pending-to-approved
// transition) and then posts the balance change through the ledger; if the
// ledger refuses the change the claim is released and the request stays
// pending, surfacing the failure to the caller.
func (s *Service) Process(ctx context.Context, requestID, adminID uuid.UUID, action, adminNotes string) (Request, error) {
	if action != ActionApprove && action != ActionReject {
		return Request{}, ErrInvalidAction
	}

	req, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if req.Terminal() {
		return Request{}, ErrInvalidState
	}

	now := time.Now().UTC()

	if action == ActionReject {
		if err := s.repo.MarkProcessed(ctx, req.ID, StatusRejected, &adminID, adminNotes, now); err != nil {
			return Request{}, err
		}
		return s.finish(ctx, req.ID, StatusRejected)
	}

	// Claim before posting so a concurrent approval of the same request
	// cannot double-apply the balance change.
	if err := s.repo.MarkProcessed(ctx, req.ID, StatusApproved, &adminID, adminNotes, now); err != nil {
		return Request{}, err
	}

	amount := req.Amount
	if req.Type == TypeWithdrawal {
		amount = amount.Neg()
	}

	refID := req.ID
	_, err = s.ledger.Adjust(ctx, ledger.AdjustParams{
		WalletID:    req.WalletID,
		UserID:      req.UserID,
		Kind:        req.Type,
		Amount:      amount,
		Description: fmt.Sprintf("%s request approved", req.Type),
		ReferenceID: &refID,
		ProcessedBy: &adminID,
		AdminNotes:  adminNotes,
	})
	if err != nil {
		if reopenErr := s.repo.Reopen(ctx, req.ID); reopenErr != nil {
			return Request{}, fmt.Errorf("release claim after failed posting: %w", reopenErr)
		}
		return Request{}, err
	}

	return s.finish(ctx, req.ID, StatusApproved)
}

// Cancel lets the submitting user withdraw a pending request.
func (s *Service) Cancel(ctx context.Context, requestID, userID uuid.UUID) (Request, error) {
	req, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if req.UserID != userID {
		return Request{}, ErrNotOwner
	}
	if req.Terminal() {
		return Request{}, ErrInvalidState
	}
	if err := s.repo.MarkProcessed(ctx, req.ID, StatusCancelled, nil, "", time.Now().UTC()); err != nil {
		return Request{}, err
	}
	return s.repo.Get(ctx, req.ID)
}

func (s *Service) finish(ctx context.Context, id uuid.UUID, status string) (Request, error) {
	req, err := s.repo.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindRequestProcessed,
			Destination: req.UserID.String(),
			Body:        fmt.Sprintf("Your %s request for %s was %s", req.Type, req.Amount, status),
		})
	}
	return req, nil
}
