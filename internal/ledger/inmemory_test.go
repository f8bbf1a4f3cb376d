package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestInMemoryLedger_CreateWalletConflict(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	userID := uuid.New()

	if _, err := l.CreateWallet(ctx, userID); err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	if _, err := l.CreateWallet(ctx, userID); !errors.Is(err, ErrWalletExists) {
		t.Fatalf("expected ErrWalletExists, got %v", err)
	}
}

func TestInMemoryLedger_AdjustRecordsTransition(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	w, err := l.CreateWallet(ctx, uuid.New())
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	SeedBalance(l, w.ID, decimal.NewFromInt(100))

	rec, err := l.Adjust(ctx, AdjustParams{
		WalletID:    w.ID,
		Kind:        KindDeposit,
		Amount:      decimal.NewFromInt(50),
		Description: "deposit approved",
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}

	if !rec.BalanceBefore.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected balance_before 100, got %s", rec.BalanceBefore)
	}
	if !rec.BalanceAfter.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected balance_after 150, got %s", rec.BalanceAfter)
	}
	if !rec.BalanceAfter.Sub(rec.BalanceBefore).Equal(rec.Amount) {
		t.Fatalf("transition does not match amount: %+v", rec)
	}

	fetched, err := l.WalletByUser(ctx, w.UserID)
	if err != nil {
		t.Fatalf("wallet by user: %v", err)
	}
	if !fetched.Balance.Equal(rec.BalanceAfter) {
		t.Fatalf("wallet balance %s does not match balance_after %s", fetched.Balance, rec.BalanceAfter)
	}
}

func TestInMemoryLedger_AdjustRejectsNegativeResult(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	w, _ := l.CreateWallet(ctx, uuid.New())
	SeedBalance(l, w.ID, decimal.NewFromInt(100))

	if _, err := l.Adjust(ctx, AdjustParams{
		WalletID: w.ID,
		Kind:     KindWithdrawal,
		Amount:   decimal.NewFromInt(-150),
	}); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	fetched, _ := l.WalletByUser(ctx, w.UserID)
	if !fetched.Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("failed adjust must not move balance, got %s", fetched.Balance)
	}
	if _, total, _ := l.Transactions(ctx, w.ID, Page{}); total != 0 {
		t.Fatalf("failed adjust must not record a transaction, got %d rows", total)
	}
}

func TestInMemoryLedger_AdjustInactiveWallet(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	w, _ := l.CreateWallet(ctx, uuid.New())
	Deactivate(l, w.ID)

	if _, err := l.Adjust(ctx, AdjustParams{
		WalletID: w.ID,
		Kind:     KindDeposit,
		Amount:   decimal.NewFromInt(10),
	}); !errors.Is(err, ErrWalletInactive) {
		t.Fatalf("expected ErrWalletInactive, got %v", err)
	}
}

func TestInMemoryLedger_ConcurrentWithdrawalsSingleWinner(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	w, _ := l.CreateWallet(ctx, uuid.New())
	SeedBalance(l, w.ID, decimal.NewFromInt(100))

	const workers = 2
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Adjust(ctx, AdjustParams{
				WalletID: w.ID,
				Kind:     KindWithdrawal,
				Amount:   decimal.NewFromInt(-100),
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, insufficient int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrInsufficientFunds):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || insufficient != 1 {
		t.Fatalf("expected exactly one success and one insufficient funds, got %d/%d", successes, insufficient)
	}

	fetched, _ := l.WalletByUser(ctx, w.UserID)
	if fetched.Balance.IsNegative() {
		t.Fatalf("balance went negative: %s", fetched.Balance)
	}
	if !fetched.Balance.Equal(decimal.Zero) {
		t.Fatalf("expected zero balance, got %s", fetched.Balance)
	}
}

func TestInMemoryLedger_TransactionsNewestFirst(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	w, _ := l.CreateWallet(ctx, uuid.New())
	for i := 1; i <= 3; i++ {
		if _, err := l.Adjust(ctx, AdjustParams{
			WalletID: w.ID,
			Kind:     KindDeposit,
			Amount:   decimal.NewFromInt(int64(i)),
		}); err != nil {
			t.Fatalf("adjust %d: %v", i, err)
		}
	}

	txs, total, err := l.Transactions(ctx, w.ID, Page{Number: 1, Size: 2})
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 rows on page, got %d", len(txs))
	}
	if !txs[0].Amount.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("expected newest first, got amount %s", txs[0].Amount)
	}
}
