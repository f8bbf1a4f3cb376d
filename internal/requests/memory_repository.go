package requests

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/ledger"
)

type memoryRepository struct {
	mu       sync.Mutex
	requests map[uuid.UUID]Request
}

// NewMemoryRepository constructs an in-memory request store for tests and
// dev mode. Transition semantics match the Postgres implementation.
func NewMemoryRepository() Repository {
	return &memoryRepository{requests: make(map[uuid.UUID]Request)}
}

func (r *memoryRepository) Create(_ context.Context, req Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[req.ID] = req
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id uuid.UUID) (Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return Request{}, ErrRequestNotFound
	}
	return req, nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID uuid.UUID, page ledger.Page) ([]Request, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []Request
	for _, req := range r.requests {
		if req.UserID == userID {
			all = append(all, req)
		}
	}
	return pageOf(all, page)
}

func (r *memoryRepository) List(_ context.Context, status string, page ledger.Page) ([]Request, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []Request
	for _, req := range r.requests {
		if status == "" || req.Status == status {
			all = append(all, req)
		}
	}
	return pageOf(all, page)
}

func (r *memoryRepository) MarkProcessed(_ context.Context, id uuid.UUID, toStatus string, processedBy *uuid.UUID, adminNotes string, processedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return ErrRequestNotFound
	}
	if req.Status != StatusPending {
		return ErrInvalidState
	}
	at := processedAt.UTC()
	req.Status = toStatus
	req.ProcessedBy = processedBy
	req.AdminNotes = adminNotes
	req.ProcessedAt = &at
	r.requests[id] = req
	return nil
}

func (r *memoryRepository) Reopen(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.Status != StatusApproved {
		return ErrRequestNotFound
	}
	req.Status = StatusPending
	req.ProcessedBy = nil
	req.ProcessedAt = nil
	req.AdminNotes = ""
	r.requests[id] = req
	return nil
}

func pageOf(all []Request, page ledger.Page) ([]Request, int64, error) {
	page = page.Normalize()
	sort.Slice(all, func(i, j int) bool { return all[i].RequestedAt.After(all[j].RequestedAt) })
	total := int64(len(all))
	start := page.Offset()
	if start >= len(all) {
		return []Request{}, total, nil
	}
	end := start + page.Size
	if end > len(all) {
		end = len(all)
	}
	out := make([]Request, end-start)
	copy(out, all[start:end])
	return out, total, nil
}
