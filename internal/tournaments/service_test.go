package tournaments

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/ledger"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/notification"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/wallet"
)

type captureNotifier struct {
	sent []notification.Message
}

func (c *captureNotifier) Send(_ context.Context, message notification.Message) error {
	c.sent = append(c.sent, message)
	return nil
}

func newTestService() (*Service, *wallet.Service, ledger.Ledger, *captureNotifier) {
	led := ledger.NewInMemory()
	wallets := wallet.NewService(led, decimal.NewFromInt(50000))
	notifier := &captureNotifier{}
	return NewService(led, wallets, notifier), wallets, led, notifier
}

func TestChargeEntryFee(t *testing.T) {
	svc, wallets, led, _ := newTestService()
	ctx := context.Background()
	userID := uuid.New()
	tournamentID := uuid.New()

	w, err := wallets.GetOrCreate(ctx, userID)
	if err != nil {
		t.Fatalf("provision wallet: %v", err)
	}
	ledger.SeedBalance(led, w.ID, decimal.NewFromInt(100))

	rec, err := svc.ChargeEntryFee(ctx, FeeInput{UserID: userID, TournamentID: tournamentID, Amount: decimal.NewFromInt(40)})
	if err != nil {
		t.Fatalf("charge fee: %v", err)
	}
	if rec.Kind != ledger.KindTournamentFee {
		t.Fatalf("kind = %q, want tournament_fee", rec.Kind)
	}
	if !rec.Amount.Equal(decimal.NewFromInt(-40)) {
		t.Fatalf("amount = %s, want -40", rec.Amount)
	}
	if rec.ReferenceID == nil || *rec.ReferenceID != tournamentID {
		t.Fatalf("reference_id = %v, want %s", rec.ReferenceID, tournamentID)
	}

	got, err := wallets.Get(ctx, userID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("balance = %s, want 60", got.Balance)
	}
}

func TestChargeEntryFeeWithoutFunds(t *testing.T) {
	svc, wallets, led, _ := newTestService()
	ctx := context.Background()
	userID := uuid.New()

	w, err := wallets.GetOrCreate(ctx, userID)
	if err != nil {
		t.Fatalf("provision wallet: %v", err)
	}
	ledger.SeedBalance(led, w.ID, decimal.NewFromInt(10))

	if _, err := svc.ChargeEntryFee(ctx, FeeInput{UserID: userID, TournamentID: uuid.New(), Amount: decimal.NewFromInt(40)}); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	got, err := wallets.Get(ctx, userID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("balance moved on refused fee: %s", got.Balance)
	}
}

func TestAwardPrize(t *testing.T) {
	svc, wallets, _, notifier := newTestService()
	ctx := context.Background()
	userID := uuid.New()
	tournamentID := uuid.New()
	adminID := uuid.New()

	rec, err := svc.AwardPrize(ctx, PrizeInput{UserID: userID, TournamentID: tournamentID, Amount: decimal.NewFromInt(250), AwardedBy: adminID})
	if err != nil {
		t.Fatalf("award prize: %v", err)
	}
	if rec.Kind != ledger.KindTournamentPrize {
		t.Fatalf("kind = %q, want tournament_prize", rec.Kind)
	}
	if rec.ProcessedBy == nil || *rec.ProcessedBy != adminID {
		t.Fatalf("processed_by = %v, want %s", rec.ProcessedBy, adminID)
	}

	got, err := wallets.Get(ctx, userID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("balance = %s, want 250", got.Balance)
	}

	if len(notifier.sent) != 1 || notifier.sent[0].Kind != notification.KindPrizeAwarded {
		t.Fatalf("notification not sent: %+v", notifier.sent)
	}
}

func TestNonPositiveAmountsRejected(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.ChargeEntryFee(ctx, FeeInput{UserID: uuid.New(), TournamentID: uuid.New(), Amount: decimal.Zero}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero fee err = %v, want ErrInvalidAmount", err)
	}
	if _, err := svc.AwardPrize(ctx, PrizeInput{UserID: uuid.New(), TournamentID: uuid.New(), Amount: decimal.NewFromInt(-5)}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative prize err = %v, want ErrInvalidAmount", err)
	}
}
