package requests

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/ledger"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/wallet"
)

type testEnv struct {
	svc     *Service
	wallets *wallet.Service
	led     ledger.Ledger
}

func newTestEnv() testEnv {
	led := ledger.NewInMemory()
	wallets := wallet.NewService(led, decimal.NewFromInt(50000))
	svc := NewService(NewMemoryRepository(), led, wallets, nil, decimal.NewFromInt(1), decimal.NewFromInt(10000))
	return testEnv{svc: svc, wallets: wallets, led: led}
}

func (e testEnv) balance(t *testing.T, userID uuid.UUID) decimal.Decimal {
	t.Helper()
	w, err := e.wallets.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	return w.Balance
}

func TestSubmitLeavesBalanceUntouched(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	userID := uuid.New()

	req, err := env.svc.Submit(ctx, SubmitInput{UserID: userID, Type: TypeDeposit, Amount: decimal.NewFromInt(100)})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if req.Status != StatusPending {
		t.Fatalf("status = %q, want pending", req.Status)
	}
	if !env.balance(t, userID).IsZero() {
		t.Fatalf("submitting a request moved the balance")
	}
}

func TestSubmitValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	userID := uuid.New()

	if _, err := env.svc.Submit(ctx, SubmitInput{UserID: userID, Type: "transfer", Amount: decimal.NewFromInt(10)}); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("bad type err = %v, want ErrInvalidType", err)
	}
	if _, err := env.svc.Submit(ctx, SubmitInput{UserID: userID, Type: TypeDeposit, Amount: decimal.Zero}); !errors.Is(err, ErrAmountOutOfRange) {
		t.Fatalf("zero amount err = %v, want ErrAmountOutOfRange", err)
	}
	if _, err := env.svc.Submit(ctx, SubmitInput{UserID: userID, Type: TypeDeposit, Amount: decimal.NewFromInt(20000)}); !errors.Is(err, ErrAmountOutOfRange) {
		t.Fatalf("over-limit err = %v, want ErrAmountOutOfRange", err)
	}
}

func TestApproveDepositCreditsWallet(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	userID := uuid.New()
	adminID := uuid.New()

	req, err := env.svc.Submit(ctx, SubmitInput{UserID: userID, Type: TypeDeposit, Amount: decimal.NewFromInt(100)})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	processed, err := env.svc.Process(ctx, req.ID, adminID, ActionApprove, "verified bank slip")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if processed.Status != StatusApproved {
		t.Fatalf("status = %q, want approved", processed.Status)
	}
	if processed.ProcessedBy == nil || *processed.ProcessedBy != adminID {
		t.Fatalf("processed_by = %v, want %s", processed.ProcessedBy, adminID)
	}
	if !env.balance(t, userID).Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance = %s, want 100", env.balance(t, userID))
	}

	txns, _, err := env.led.Transactions(ctx, req.WalletID, ledger.Page{})
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("transaction count = %d, want 1", len(txns))
	}
	rec := txns[0]
	if rec.Kind != ledger.KindDeposit {
		t.Fatalf("kind = %q, want deposit", rec.Kind)
	}
	if !rec.BalanceBefore.IsZero() || !rec.BalanceAfter.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance transition %s -> %s, want 0 -> 100", rec.BalanceBefore, rec.BalanceAfter)
	}
	if rec.ReferenceID == nil || *rec.ReferenceID != req.ID {
		t.Fatalf("reference_id = %v, want %s", rec.ReferenceID, req.ID)
	}
}

func TestApproveWithdrawalDebitsWallet(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	userID := uuid.New()
	adminID := uuid.New()

	w, err := env.wallets.GetOrCreate(ctx, userID)
	if err != nil {
		t.Fatalf("provision wallet: %v", err)
	}
	ledger.SeedBalance(env.led, w.ID, decimal.NewFromInt(150))

	req, err := env.svc.Submit(ctx, SubmitInput{UserID: userID, Type: TypeWithdrawal, Amount: decimal.NewFromInt(100)})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.svc.Process(ctx, req.ID, adminID, ActionApprove, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !env.balance(t, userID).Equal(decimal.NewFromInt(50)) {
		t.Fatalf("balance = %s, want 50", env.balance(t, userID))
	}

	txns, _, err := env.led.Transactions(ctx, w.ID, ledger.Page{})
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txns) != 1 || !txns[0].Amount.Equal(decimal.NewFromInt(-100)) {
		t.Fatalf("withdrawal amount not recorded as -100: %+v", txns)
	}
}

func TestApproveWithdrawalWithoutFundsStaysPending(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	userID := uuid.New()
	adminID := uuid.New()

	req, err := env.svc.Submit(ctx, SubmitInput{UserID: userID, Type: TypeWithdrawal, Amount: decimal.NewFromInt(100)})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.svc.Process(ctx, req.ID, adminID, ActionApprove, "payout batch 7"); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("approve err = %v, want ErrInsufficientFunds", err)
	}

	// The refused approval releases the claim so it can be retried later,
	// leaving no trace of the failed attempt on the request.
	got, err := env.svc.Get(ctx, req.ID, userID, false)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if got.Status != StatusPending {
		t.Fatalf("status = %q, want pending after refused approval", got.Status)
	}
	if got.ProcessedBy != nil || got.ProcessedAt != nil || got.AdminNotes != "" {
		t.Fatalf("released claim left residue: %+v", got)
	}
	if !env.balance(t, userID).IsZero() {
		t.Fatalf("balance moved on refused approval")
	}
}

func TestRejectOnlyFlipsStatus(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	userID := uuid.New()
	adminID := uuid.New()

	req, err := env.svc.Submit(ctx, SubmitInput{UserID: userID, Type: TypeDeposit, Amount: decimal.NewFromInt(100)})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	processed, err := env.svc.Process(ctx, req.ID, adminID, ActionReject, "unverifiable receipt")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if processed.Status != StatusRejected {
		t.Fatalf("status = %q, want rejected", processed.Status)
	}
	if processed.AdminNotes != "unverifiable receipt" {
		t.Fatalf("admin notes = %q", processed.AdminNotes)
	}
	if !env.balance(t, userID).IsZero() {
		t.Fatalf("rejection moved the balance")
	}
}

func TestProcessIsOneShot(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	userID := uuid.New()
	adminID := uuid.New()

	req, err := env.svc.Submit(ctx, SubmitInput{UserID: userID, Type: TypeDeposit, Amount: decimal.NewFromInt(100)})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.svc.Process(ctx, req.ID, adminID, ActionApprove, ""); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if _, err := env.svc.Process(ctx, req.ID, adminID, ActionApprove, ""); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second approve err = %v, want ErrInvalidState", err)
	}
	if !env.balance(t, userID).Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance = %s, want a single credit of 100", env.balance(t, userID))
	}
}

func TestConcurrentApprovalsApplyOnce(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	userID := uuid.New()
	adminID := uuid.New()

	req, err := env.svc.Submit(ctx, SubmitInput{UserID: userID, Type: TypeDeposit, Amount: decimal.NewFromInt(100)})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.Process(ctx, req.ID, adminID, ActionApprove, "")
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrInvalidState):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflict != 1 {
		t.Fatalf("ok=%d conflict=%d, want exactly one winner", ok, conflict)
	}
	if !env.balance(t, userID).Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance = %s, want 100 after a single application", env.balance(t, userID))
	}
}

func TestTwoWithdrawalsOnlyOneFunded(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	userID := uuid.New()
	adminID := uuid.New()

	w, err := env.wallets.GetOrCreate(ctx, userID)
	if err != nil {
		t.Fatalf("provision wallet: %v", err)
	}
	ledger.SeedBalance(env.led, w.ID, decimal.NewFromInt(100))

	first, err := env.svc.Submit(ctx, SubmitInput{UserID: userID, Type: TypeWithdrawal, Amount: decimal.NewFromInt(100)})
	if err != nil {
		t.Fatalf("submit first: %v", err)
	}
	second, err := env.svc.Submit(ctx, SubmitInput{UserID: userID, Type: TypeWithdrawal, Amount: decimal.NewFromInt(100)})
	if err != nil {
		t.Fatalf("submit second: %v", err)
	}

	if _, err := env.svc.Process(ctx, first.ID, adminID, ActionApprove, ""); err != nil {
		t.Fatalf("approve first: %v", err)
	}
	if _, err := env.svc.Process(ctx, second.ID, adminID, ActionApprove, ""); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("approve second err = %v, want ErrInsufficientFunds", err)
	}

	if !env.balance(t, userID).IsZero() {
		t.Fatalf("balance = %s, want 0", env.balance(t, userID))
	}
	got, err := env.svc.Get(ctx, second.ID, userID, false)
	if err != nil {
		t.Fatalf("get second: %v", err)
	}
	if got.Status != StatusPending {
		t.Fatalf("second request status = %q, want pending", got.Status)
	}
}

func TestCancelIsOwnerOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	userID := uuid.New()

	req, err := env.svc.Submit(ctx, SubmitInput{UserID: userID, Type: TypeWithdrawal, Amount: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.svc.Cancel(ctx, req.ID, uuid.New()); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("stranger cancel err = %v, want ErrNotOwner", err)
	}

	cancelled, err := env.svc.Cancel(ctx, req.ID, userID)
	if err != nil {
		t.Fatalf("owner cancel: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Fatalf("status = %q, want cancelled", cancelled.Status)
	}
	if _, err := env.svc.Process(ctx, req.ID, uuid.New(), ActionApprove, ""); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("approve after cancel err = %v, want ErrInvalidState", err)
	}
}

func TestGetHidesForeignRequests(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	userID := uuid.New()

	req, err := env.svc.Submit(ctx, SubmitInput{UserID: userID, Type: TypeDeposit, Amount: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.svc.Get(ctx, req.ID, uuid.New(), false); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("foreign get err = %v, want ErrNotOwner", err)
	}
	if _, err := env.svc.Get(ctx, req.ID, uuid.New(), true); err != nil {
		t.Fatalf("admin get: %v", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	adminID := uuid.New()

	first, err := env.svc.Submit(ctx, SubmitInput{UserID: uuid.New(), Type: TypeDeposit, Amount: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.svc.Submit(ctx, SubmitInput{UserID: uuid.New(), Type: TypeDeposit, Amount: decimal.NewFromInt(20)}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.svc.Process(ctx, first.ID, adminID, ActionReject, ""); err != nil {
		t.Fatalf("reject: %v", err)
	}

	pending, total, err := env.svc.List(ctx, StatusPending, ledger.Page{})
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if total != 1 || len(pending) != 1 || pending[0].Status != StatusPending {
		t.Fatalf("pending list = %d items (total %d)", len(pending), total)
	}
	if _, _, err := env.svc.List(ctx, "bogus", ledger.Page{}); err == nil {
		t.Fatalf("unknown status filter accepted")
	}
}
