package wallet

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/ledger"
)

var (
	// ErrDescriptionRequired indicates a manual adjustment without a reason.
	ErrDescriptionRequired = errors.New("adjustment description is required")

	// ErrZeroAmount indicates a zero adjustment amount.
	ErrZeroAmount = errors.New("amount must be non-zero")

	// ErrAdjustmentTooLarge indicates the adjustment exceeds the configured cap.
	ErrAdjustmentTooLarge = errors.New("adjustment exceeds configured cap")
)

// Service exposes wallet operations backed by the ledger.
type Service struct {
	ledger    ledger.Ledger
	adjustCap decimal.Decimal
}

// NewService builds a wallet service. adjustCap bounds the absolute value of
// a single manual admin adjustment.
func NewService(led ledger.Ledger, adjustCap decimal.Decimal) *Service {
	return &Service{ledger: led, adjustCap: adjustCap}
}

// GetOrCreate returns the user's wallet, provisioning a zero-balance wallet
// on first access. The operation is idempotent: a concurrent create by
// another request resolves to the already-created wallet.
func (s *Service) GetOrCreate(ctx context.Context, userID uuid.UUID) (ledger.Wallet, error) {
	w, err := s.ledger.WalletByUser(ctx, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, ledger.ErrWalletNotFound) {
		return ledger.Wallet{}, err
	}

	w, err = s.ledger.CreateWallet(ctx, userID)
	if errors.Is(err, ledger.ErrWalletExists) {
		// lost the race, the wallet exists now
		return s.ledger.WalletByUser(ctx, userID)
	}
	return w, err
}

// Create provisions a wallet explicitly, surfacing a conflict when one
// already exists. Used by the admin provisioning endpoint.
func (s *Service) Create(ctx context.Context, userID uuid.UUID) (ledger.Wallet, error) {
	return s.ledger.CreateWallet(ctx, userID)
}

// Get returns the user's wallet without creating one.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (ledger.Wallet, error) {
	return s.ledger.WalletByUser(ctx, userID)
}

// Transactions lists the user's transaction history, newest first.
func (s *Service) Transactions(ctx context.Context, userID uuid.UUID, page ledger.Page) ([]ledger.Transaction, int64, error) {
	w, err := s.ledger.WalletByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return s.ledger.Transactions(ctx, w.ID, page)
}

// List returns all wallets for the admin overview.
func (s *Service) List(ctx context.Context, page ledger.Page) ([]ledger.Wallet, int64, error) {
	return s.ledger.Wallets(ctx, page)
}

// ManualAdjust applies a direct admin correction to the user's balance,
// bypassing the request workflow. The amount is signed; the absolute value
// must not exceed the configured cap and a description is mandatory.
func (s *Service) ManualAdjust(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, adminID uuid.UUID, description string) (ledger.Transaction, error) {
	if strings.TrimSpace(description) == "" {
		return ledger.Transaction{}, ErrDescriptionRequired
	}
	if amount.IsZero() {
		return ledger.Transaction{}, ErrZeroAmount
	}
	if amount.Abs().GreaterThan(s.adjustCap) {
		return ledger.Transaction{}, ErrAdjustmentTooLarge
	}

	w, err := s.ledger.WalletByUser(ctx, userID)
	if err != nil {
		return ledger.Transaction{}, err
	}

	return s.ledger.Adjust(ctx, ledger.AdjustParams{
		WalletID:    w.ID,
		UserID:      userID,
		Kind:        ledger.KindAdminAdjustment,
		Amount:      amount,
		Description: description,
		ProcessedBy: &adminID,
	})
}
