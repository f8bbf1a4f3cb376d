package requests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/ledger"
)

var (
	// ErrRequestNotFound indicates no request matches the id.
	ErrRequestNotFound = errors.New("request not found")

	// ErrInvalidState indicates a transition attempted on a non-pending
	// request. Status moves exactly once from pending to a terminal state.
	ErrInvalidState = errors.New("request is not pending")
)

// Repository persists wallet requests. MarkProcessed performs the one-shot
// pending-to-terminal transition: under concurrent processing exactly one
// caller succeeds.
type Repository interface {
	Create(ctx context.Context, req Request) error
	Get(ctx context.Context, id uuid.UUID) (Request, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page ledger.Page) ([]Request, int64, error)
	List(ctx context.Context, status string, page ledger.Page) ([]Request, int64, error)
	MarkProcessed(ctx context.Context, id uuid.UUID, toStatus string, processedBy *uuid.UUID, adminNotes string, processedAt time.Time) error
	Reopen(ctx context.Context, id uuid.UUID) error
}

// PostgresRepository stores wallet requests in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed request repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const requestColumns = `id, wallet_id, user_id, type, amount, status, user_notes, payment_method, payment_details, admin_notes, processed_by, requested_at, processed_at`

// Create inserts a pending request.
func (r *PostgresRepository) Create(ctx context.Context, req Request) error {
	_, err := r.db.Exec(ctx, `INSERT INTO wallet_requests
        (id, wallet_id, user_id, type, amount, status, user_notes, payment_method, payment_details, admin_notes, requested_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		req.ID, req.WalletID, req.UserID, req.Type, req.Amount, req.Status,
		req.UserNotes, req.PaymentMethod, req.PaymentDetails, req.AdminNotes, req.RequestedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert wallet request: %w", err)
	}
	return nil
}

// Get fetches a request by id.
func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (Request, error) {
	row := r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM wallet_requests WHERE id = $1`, id)
	return scanRequest(row)
}

// ListByUser lists the user's requests, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, page ledger.Page) ([]Request, int64, error) {
	page = page.Normalize()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM wallet_requests WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+requestColumns+` FROM wallet_requests
        WHERE user_id = $1 ORDER BY requested_at DESC LIMIT $2 OFFSET $3`, userID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()
	return collectRequests(rows, total, page.Size)
}

// List lists requests across all users, optionally filtered by status.
func (r *PostgresRepository) List(ctx context.Context, status string, page ledger.Page) ([]Request, int64, error) {
	page = page.Normalize()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM wallet_requests WHERE ($1 = '' OR status = $1)`, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+requestColumns+` FROM wallet_requests
        WHERE ($1 = '' OR status = $1) ORDER BY requested_at DESC LIMIT $2 OFFSET $3`, status, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()
	return collectRequests(rows, total, page.Size)
}

// MarkProcessed transitions a pending request to a terminal status. The
// conditional update makes the transition single-shot: if another caller got
// there first, zero rows match and ErrInvalidState is returned.
func (r *PostgresRepository) MarkProcessed(ctx context.Context, id uuid.UUID, toStatus string, processedBy *uuid.UUID, adminNotes string, processedAt time.Time) error {
	cmd, err := r.db.Exec(ctx, `UPDATE wallet_requests
        SET status = $2, processed_by = $3, admin_notes = $4, processed_at = $5, updated_at = $5
        WHERE id = $1 AND status = $6`,
		id, toStatus, processedBy, adminNotes, processedAt.UTC(), StatusPending)
	if err != nil {
		return fmt.Errorf("mark request processed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return ErrInvalidState
	}
	return nil
}

// Reopen reverts an approved claim back to pending. Used only when the
// ledger refused the balance change after the request was claimed, so the
// request keeps waiting for a later decision.
func (r *PostgresRepository) Reopen(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `UPDATE wallet_requests
        SET status = $2, processed_by = NULL, processed_at = NULL, admin_notes = '', updated_at = now()
        WHERE id = $1 AND status = $3`,
		id, StatusPending, StatusApproved)
	if err != nil {
		return fmt.Errorf("reopen request: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	if err := row.Scan(&req.ID, &req.WalletID, &req.UserID, &req.Type, &req.Amount, &req.Status,
		&req.UserNotes, &req.PaymentMethod, &req.PaymentDetails, &req.AdminNotes,
		&req.ProcessedBy, &req.RequestedAt, &req.ProcessedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, ErrRequestNotFound
		}
		return Request{}, fmt.Errorf("scan wallet request: %w", err)
	}
	req.RequestedAt = req.RequestedAt.UTC()
	return req, nil
}

func collectRequests(rows pgx.Rows, total int64, capacity int) ([]Request, int64, error) {
	out := make([]Request, 0, capacity)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, req)
	}
	return out, total, rows.Err()
}
