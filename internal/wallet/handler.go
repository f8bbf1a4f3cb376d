package wallet

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/ledger"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/middleware"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/respond"
)

// Handler exposes the user-facing wallet endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type walletResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type transactionResponse struct {
	ID            string          `json:"id"`
	WalletID      string          `json:"wallet_id"`
	UserID        string          `json:"user_id"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Status        string          `json:"status"`
	Description   string          `json:"description,omitempty"`
	ReferenceID   *string         `json:"reference_id,omitempty"`
	ProcessedBy   *string         `json:"processed_by,omitempty"`
	AdminNotes    string          `json:"admin_notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Wallet returns the caller's wallet, creating it on first access.
func (h *Handler) Wallet(c *fiber.Ctx) error {
	userID, ok := middleware.AuthUserID(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	w, err := h.service.GetOrCreate(c.UserContext(), userID)
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, toWalletResponse(w))
}

// Transactions lists the caller's transaction history, newest first.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	userID, ok := middleware.AuthUserID(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	page := pageFromQuery(c)
	items, total, err := h.service.Transactions(c.UserContext(), userID, page)
	if err != nil {
		return mapError(err)
	}
	return respond.Page(c, http.StatusOK, toTransactionResponses(items), page.Number, page.Size, total)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrWalletNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrWalletExists):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrWalletInactive),
		errors.Is(err, ErrDescriptionRequired),
		errors.Is(err, ErrZeroAmount),
		errors.Is(err, ErrAdjustmentTooLarge):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}

func pageFromQuery(c *fiber.Ctx) ledger.Page {
	return ledger.Page{
		Number: c.QueryInt("page", 1),
		Size:   c.QueryInt("limit", 20),
	}.Normalize()
}

func toWalletResponse(w ledger.Wallet) walletResponse {
	return walletResponse{
		ID:        w.ID.String(),
		UserID:    w.UserID.String(),
		Balance:   w.Balance,
		Active:    w.Active,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func toWalletResponses(items []ledger.Wallet) []walletResponse {
	out := make([]walletResponse, len(items))
	for i, w := range items {
		out[i] = toWalletResponse(w)
	}
	return out
}

func toTransactionResponse(t ledger.Transaction) transactionResponse {
	out := transactionResponse{
		ID:            t.ID.String(),
		WalletID:      t.WalletID.String(),
		UserID:        t.UserID.String(),
		Kind:          t.Kind,
		Amount:        t.Amount,
		BalanceBefore: t.BalanceBefore,
		BalanceAfter:  t.BalanceAfter,
		Status:        t.Status,
		Description:   t.Description,
		AdminNotes:    t.AdminNotes,
		CreatedAt:     t.CreatedAt,
	}
	if t.ReferenceID != nil {
		s := t.ReferenceID.String()
		out.ReferenceID = &s
	}
	if t.ProcessedBy != nil {
		s := t.ProcessedBy.String()
		out.ProcessedBy = &s
	}
	return out
}

func toTransactionResponses(items []ledger.Transaction) []transactionResponse {
	out := make([]transactionResponse, len(items))
	for i, t := range items {
		out[i] = toTransactionResponse(t)
	}
	return out
}
