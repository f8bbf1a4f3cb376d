package tournaments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/ledger"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/notification"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/wallet"
)

// ErrInvalidAmount rejects non-positive fee or prize amounts.
var ErrInvalidAmount = errors.New("amount must be positive")

// Service posts tournament entry fees and prize payouts through the ledger.
// Bracket management lives elsewhere; only the wallet-side postings are
// modeled here.
type Service struct {
	ledger   ledger.Ledger
	wallets  *wallet.Service
	notifier notification.Notifier
}

// NewService builds a tournament billing service.
func NewService(led ledger.Ledger, wallets *wallet.Service, notifier notification.Notifier) *Service {
	return &Service{ledger: led, wallets: wallets, notifier: notifier}
}

// FeeInput describes an entry-fee charge.
type FeeInput struct {
	UserID       uuid.UUID
	TournamentID uuid.UUID
	Amount       decimal.Decimal
}

// PrizeInput describes a prize payout.
type PrizeInput struct {
	UserID       uuid.UUID
	TournamentID uuid.UUID
	Amount       decimal.Decimal
	AwardedBy    uuid.UUID
}

// ChargeEntryFee debits the player's wallet for a tournament entry fee.
// InsufficientFunds blocks registration and leaves the balance untouched.
func (s *Service) ChargeEntryFee(ctx context.Context, input FeeInput) (ledger.Transaction, error) {
	if !input.Amount.IsPositive() {
		return ledger.Transaction{}, ErrInvalidAmount
	}
	w, err := s.wallets.GetOrCreate(ctx, input.UserID)
	if err != nil {
		return ledger.Transaction{}, err
	}

	refID := input.TournamentID
	return s.ledger.Adjust(ctx, ledger.AdjustParams{
		WalletID:    w.ID,
		UserID:      input.UserID,
		Kind:        ledger.KindTournamentFee,
		Amount:      input.Amount.Neg(),
		Description: fmt.Sprintf("entry fee for tournament %s", input.TournamentID),
		ReferenceID: &refID,
	})
}

// AwardPrize credits a player's wallet with tournament winnings.
func (s *Service) AwardPrize(ctx context.Context, input PrizeInput) (ledger.Transaction, error) {
	if !input.Amount.IsPositive() {
		return ledger.Transaction{}, ErrInvalidAmount
	}
	w, err := s.wallets.GetOrCreate(ctx, input.UserID)
	if err != nil {
		return ledger.Transaction{}, err
	}

	refID := input.TournamentID
	adminID := input.AwardedBy
	rec, err := s.ledger.Adjust(ctx, ledger.AdjustParams{
		WalletID:    w.ID,
		UserID:      input.UserID,
		Kind:        ledger.KindTournamentPrize,
		Amount:      input.Amount,
		Description: fmt.Sprintf("prize for tournament %s", input.TournamentID),
		ReferenceID: &refID,
		ProcessedBy: &adminID,
	})
	if err != nil {
		return ledger.Transaction{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindPrizeAwarded,
			Destination: input.UserID.String(),
			Body:        fmt.Sprintf("You received a prize of %s for tournament %s", input.Amount, input.TournamentID),
		})
	}
	return rec, nil
}
