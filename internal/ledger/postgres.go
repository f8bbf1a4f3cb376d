package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

// PostgresLedger persists wallets and transactions in PostgreSQL. Balance
// mutations take a row lock on the wallet so concurrent adjustments on the
// same wallet serialize at the storage layer.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a Postgres-backed ledger implementation.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// CreateWallet inserts a zero-balance active wallet for the user.
func (l *PostgresLedger) CreateWallet(ctx context.Context, userID uuid.UUID) (Wallet, error) {
	w := Wallet{
		ID:        uuid.New(),
		UserID:    userID,
		Balance:   decimal.Zero,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	w.UpdatedAt = w.CreatedAt
	_, err := l.db.Exec(ctx, `INSERT INTO wallets (id, user_id, balance, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)`, w.ID, w.UserID, w.Balance, w.Active, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Wallet{}, ErrWalletExists
		}
		return Wallet{}, fmt.Errorf("insert wallet: %w", err)
	}
	return w, nil
}

// WalletByUser fetches the user's wallet.
func (l *PostgresLedger) WalletByUser(ctx context.Context, userID uuid.UUID) (Wallet, error) {
	row := l.db.QueryRow(ctx, `SELECT id, user_id, balance, active, created_at, updated_at
        FROM wallets WHERE user_id = $1`, userID)
	return scanWallet(row)
}

// Wallets lists wallets ordered by creation time, newest first.
func (l *PostgresLedger) Wallets(ctx context.Context, page Page) ([]Wallet, int64, error) {
	page = page.Normalize()

	var total int64
	if err := l.db.QueryRow(ctx, `SELECT COUNT(*) FROM wallets`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count wallets: %w", err)
	}

	rows, err := l.db.Query(ctx, `SELECT id, user_id, balance, active, created_at, updated_at
        FROM wallets ORDER BY created_at DESC LIMIT $1 OFFSET $2`, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	wallets := make([]Wallet, 0, page.Size)
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, 0, err
		}
		wallets = append(wallets, w)
	}
	return wallets, total, rows.Err()
}

// Adjust applies a signed balance change and appends the transaction record
// inside a single database transaction. The wallet row is locked for the
// duration so the read-compute-write sequence cannot interleave with another
// mutation on the same wallet.
func (l *PostgresLedger) Adjust(ctx context.Context, params AdjustParams) (Transaction, error) {
	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, fmt.Errorf("begin adjust: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var (
		before decimal.Decimal
		active bool
		userID uuid.UUID
	)
	row := tx.QueryRow(ctx, `SELECT user_id, balance, active FROM wallets WHERE id = $1 FOR UPDATE`, params.WalletID)
	if err := row.Scan(&userID, &before, &active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrWalletNotFound
		}
		return Transaction{}, fmt.Errorf("lock wallet: %w", err)
	}
	if !active {
		return Transaction{}, ErrWalletInactive
	}

	after := before.Add(params.Amount)
	if after.IsNegative() {
		return Transaction{}, ErrInsufficientFunds
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx, `UPDATE wallets SET balance = $1, updated_at = $2 WHERE id = $3`,
		after, now, params.WalletID); err != nil {
		return Transaction{}, fmt.Errorf("update balance: %w", err)
	}

	rec := Transaction{
		ID:            uuid.New(),
		WalletID:      params.WalletID,
		UserID:        userID,
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
	if _, err := tx.Exec(ctx, `INSERT INTO transactions
        (id, wallet_id, user_id, kind, amount, balance_before, balance_after, status, description, reference_id, processed_by, admin_notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		rec.ID, rec.WalletID, rec.UserID, rec.Kind, rec.Amount, rec.BalanceBefore, rec.BalanceAfter,
		rec.Status, rec.Description, rec.ReferenceID, rec.ProcessedBy, rec.AdminNotes, rec.CreatedAt); err != nil {
		return Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, fmt.Errorf("commit adjust: %w", err)
	}
	return rec, nil
}

// Transactions lists a wallet's history, newest first. Rows are append-only;
// nothing here ever updates or deletes them.
func (l *PostgresLedger) Transactions(ctx context.Context, walletID uuid.UUID, page Page) ([]Transaction, int64, error) {
	page = page.Normalize()

	var total int64
	if err := l.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE wallet_id = $1`, walletID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	rows, err := l.db.Query(ctx, `SELECT id, wallet_id, user_id, kind, amount, balance_before, balance_after, status, description, reference_id, processed_by, admin_notes, created_at
        FROM transactions WHERE wallet_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		walletID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]Transaction, 0, page.Size)
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.WalletID, &t.UserID, &t.Kind, &t.Amount, &t.BalanceBefore, &t.BalanceAfter,
			&t.Status, &t.Description, &t.ReferenceID, &t.ProcessedBy, &t.AdminNotes, &t.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		t.CreatedAt = t.CreatedAt.UTC()
		txs = append(txs, t)
	}
	return txs, total, rows.Err()
}

func scanWallet(row pgx.Row) (Wallet, error) {
	var w Wallet
	if err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.Active, &w.CreatedAt, &w.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrWalletNotFound
		}
		return Wallet{}, fmt.Errorf("scan wallet: %w", err)
	}
	w.CreatedAt = w.CreatedAt.UTC()
	w.UpdatedAt = w.UpdatedAt.UTC()
	return w, nil
}
