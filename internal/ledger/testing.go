package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SeedBalance is a test helper that sets a wallet balance directly when using
// the in-memory ledger. It bypasses transaction recording on purpose.
func SeedBalance(l Ledger, walletID uuid.UUID, balance decimal.Decimal) {
	if mem, ok := l.(*inMemoryLedger); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		w := mem.wallets[walletID]
		w.Balance = balance
		mem.wallets[walletID] = w
	}
}

// Deactivate is a test helper that flags a wallet inactive in the in-memory
// ledger.
func Deactivate(l Ledger, walletID uuid.UUID) {
	if mem, ok := l.(*inMemoryLedger); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		w := mem.wallets[walletID]
		w.Active = false
		mem.wallets[walletID] = w
	}
}
