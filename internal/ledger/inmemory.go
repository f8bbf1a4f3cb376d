package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type inMemoryLedger struct {
	mu           sync.Mutex
	wallets      map[uuid.UUID]Wallet
	byUser       map[uuid.UUID]uuid.UUID
	transactions map[uuid.UUID][]Transaction
}

// NewInMemory creates a concurrency-safe in-memory ledger used by unit tests
// and dev mode. It mirrors the Postgres semantics, including atomicity of the
// balance update and transaction append.
func NewInMemory() Ledger {
	return &inMemoryLedger{
		wallets:      make(map[uuid.UUID]Wallet),
		byUser:       make(map[uuid.UUID]uuid.UUID),
		transactions: make(map[uuid.UUID][]Transaction),
	}
}

func (l *inMemoryLedger) CreateWallet(_ context.Context, userID uuid.UUID) (Wallet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.byUser[userID]; exists {
		return Wallet{}, ErrWalletExists
	}

	now := time.Now().UTC()
	w := Wallet{
		ID:        uuid.New(),
		UserID:    userID,
		Balance:   decimal.Zero,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.wallets[w.ID] = w
	l.byUser[userID] = w.ID
	return w, nil
}

func (l *inMemoryLedger) WalletByUser(_ context.Context, userID uuid.UUID) (Wallet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, ok := l.byUser[userID]
	if !ok {
		return Wallet{}, ErrWalletNotFound
	}
	return l.wallets[id], nil
}

func (l *inMemoryLedger) Wallets(_ context.Context, page Page) ([]Wallet, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	page = page.Normalize()
	all := make([]Wallet, 0, len(l.wallets))
	for _, w := range l.wallets {
		all = append(all, w)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, page), int64(len(all)), nil
}

func (l *inMemoryLedger) Adjust(_ context.Context, params AdjustParams) (Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.wallets[params.WalletID]
	if !ok {
		return Transaction{}, ErrWalletNotFound
	}
	if !w.Active {
		return Transaction{}, ErrWalletInactive
	}

	before := w.Balance
	after := before.Add(params.Amount)
	if after.IsNegative() {
		return Transaction{}, ErrInsufficientFunds
	}

	now := time.Now().UTC()
	w.Balance = after
	w.UpdatedAt = now
	l.wallets[w.ID] = w

	rec := Transaction{
		ID:            uuid.New(),
		WalletID:      w.ID,
		UserID:        w.UserID,
		Kind:          params.Kind,
		Amount:        params.Amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Status:        StatusCompleted,
		Description:   params.Description,
		ReferenceID:   params.ReferenceID,
		ProcessedBy:   params.ProcessedBy,
		AdminNotes:    params.AdminNotes,
		CreatedAt:     now,
	}
	l.transactions[w.ID] = append(l.transactions[w.ID], rec)
	return rec, nil
}

func (l *inMemoryLedger) Transactions(_ context.Context, walletID uuid.UUID, page Page) ([]Transaction, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.wallets[walletID]; !ok {
		return nil, 0, ErrWalletNotFound
	}

	page = page.Normalize()
	history := l.transactions[walletID]
	ordered := make([]Transaction, len(history))
	// history is append-only, so reversing yields newest first
	for i, t := range history {
		ordered[len(history)-1-i] = t
	}
	return paginate(ordered, page), int64(len(ordered)), nil
}

func paginate[T any](items []T, page Page) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}
