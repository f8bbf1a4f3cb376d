package requests

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request types.
const (
	TypeDeposit    = "deposit"
	TypeWithdrawal = "withdrawal"
)

// Request statuses. pending is the only non-terminal state; approved,
// rejected and cancelled are terminal. cancelled is kept distinct from
// rejected even though both take the same terminal path: rejected records an
// admin decision, cancelled records the submitter withdrawing the request.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// Admin actions accepted by Process.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// Request is a user-submitted intent to deposit or withdraw, pending admin
// action. The requested amount is always positive; the sign is derived from
// the type at approval time.
type Request struct {
	ID             uuid.UUID
	WalletID       uuid.UUID
	UserID         uuid.UUID
	Type           string
	Amount         decimal.Decimal
	Status         string
	UserNotes      string
	PaymentMethod  string
	PaymentDetails string
	AdminNotes     string
	ProcessedBy    *uuid.UUID
	RequestedAt    time.Time
	ProcessedAt    *time.Time
}

// Terminal reports whether the request has reached a terminal status.
func (r Request) Terminal() bool {
	return r.Status != StatusPending
}
