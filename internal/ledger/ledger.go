package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrWalletNotFound indicates no wallet exists for the given user or id.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrWalletExists indicates a wallet already exists for the user.
	ErrWalletExists = errors.New("wallet already exists")

	// ErrWalletInactive indicates the wallet has been deactivated and may not
	// be mutated.
	ErrWalletInactive = errors.New("wallet is inactive")

	// ErrInsufficientFunds occurs when an adjustment would drive the wallet
	// balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Transaction kinds recorded by the ledger.
const (
	KindDeposit         = "deposit"
	KindWithdrawal      = "withdrawal"
	KindAdminAdjustment = "admin_adjustment"
	KindTournamentFee   = "tournament_fee"
	KindTournamentPrize = "tournament_prize"
)

// StatusCompleted is the only transaction status this ledger records; the
// ledger does not model multi-step transaction failure.
const StatusCompleted = "completed"

// Wallet is a user's balance record. One wallet per user, never hard-deleted.
type Wallet struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Balance   decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transaction is an immutable record of one balance change. balance_after
// always equals balance_before plus the signed amount, and matches the wallet
// balance at the moment the row was written.
type Transaction struct {
	ID            uuid.UUID
	WalletID      uuid.UUID
	UserID        uuid.UUID
	Kind          string
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Status        string
	Description   string
	ReferenceID   *uuid.UUID
	ProcessedBy   *uuid.UUID
	AdminNotes    string
	CreatedAt     time.Time
}

// AdjustParams describes a single balance mutation. Amount is signed: positive
// credits the wallet, negative debits it.
type AdjustParams struct {
	WalletID    uuid.UUID
	UserID      uuid.UUID
	Kind        string
	Amount      decimal.Decimal
	Description string
	ReferenceID *uuid.UUID
	ProcessedBy *uuid.UUID
	AdminNotes  string
}

// Page bounds a listing query.
type Page struct {
	Number int
	Size   int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

// Offset returns the row offset for the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Ledger persists wallets and their transaction history. Adjust applies the
// balance change and appends the transaction record as one atomic unit: a
// balance is never updated without a matching transaction row and vice versa.
type Ledger interface {
	CreateWallet(ctx context.Context, userID uuid.UUID) (Wallet, error)
	WalletByUser(ctx context.Context, userID uuid.UUID) (Wallet, error)
	Wallets(ctx context.Context, page Page) ([]Wallet, int64, error)
	Adjust(ctx context.Context, params AdjustParams) (Transaction, error)
	Transactions(ctx context.Context, walletID uuid.UUID, page Page) ([]Transaction, int64, error)
}
