package requests

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/identity"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/ledger"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/middleware"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/respond"
)

// Handler exposes the wallet request endpoints, user-facing and admin.
type Handler struct {
	service *Service
}

// NewHandler builds a request workflow handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type submitRequest struct {
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	UserNotes      string          `json:"userNotes"`
	PaymentMethod  string          `json:"paymentMethod"`
	PaymentDetails string          `json:"paymentDetails"`
}

type processRequest struct {
	Action     string `json:"action"`
	AdminNotes string `json:"adminNotes"`
}

type requestResponse struct {
	ID             string          `json:"id"`
	WalletID       string          `json:"wallet_id"`
	UserID         string          `json:"user_id"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	UserNotes      string          `json:"user_notes,omitempty"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	PaymentDetails string          `json:"payment_details,omitempty"`
	AdminNotes     string          `json:"admin_notes,omitempty"`
	ProcessedBy    *string         `json:"processed_by,omitempty"`
	RequestedAt    time.Time       `json:"requested_at"`
	ProcessedAt    *time.Time      `json:"processed_at,omitempty"`
}

// Submit creates a pending deposit/withdrawal request for the caller.
func (h *Handler) Submit(c *fiber.Ctx) error {
	userID, ok := middleware.AuthUserID(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	created, err := h.service.Submit(c.UserContext(), SubmitInput{
		UserID:         userID,
		Type:           req.Type,
		Amount:         req.Amount,
		UserNotes:      req.UserNotes,
		PaymentMethod:  req.PaymentMethod,
		PaymentDetails: req.PaymentDetails,
	})
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusCreated, toResponse(created))
}

// List returns the caller's requests, newest first.
func (h *Handler) List(c *fiber.Ctx) error {
	userID, ok := middleware.AuthUserID(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	page := pageFromQuery(c)
	items, total, err := h.service.ListByUser(c.UserContext(), userID, page)
	if err != nil {
		return mapError(err)
	}
	return respond.Page(c, http.StatusOK, toResponses(items), page.Number, page.Size, total)
}

// Get returns one request, owner or admin only.
func (h *Handler) Get(c *fiber.Ctx) error {
	userID, ok := middleware.AuthUserID(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request id")
	}
	isAdmin := middleware.AuthRole(c) == identity.RoleAdmin
	req, err := h.service.Get(c.UserContext(), id, userID, isAdmin)
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, toResponse(req))
}

// Cancel withdraws the caller's pending request.
func (h *Handler) Cancel(c *fiber.Ctx) error {
	userID, ok := middleware.AuthUserID(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request id")
	}
	req, err := h.service.Cancel(c.UserContext(), id, userID)
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, toResponse(req))
}

// AdminList returns all requests, optionally filtered by ?status=.
func (h *Handler) AdminList(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	items, total, err := h.service.List(c.UserContext(), c.Query("status"), page)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return respond.Page(c, http.StatusOK, toResponses(items), page.Number, page.Size, total)
}

// AdminProcess applies an approve/reject decision to a pending request.
func (h *Handler) AdminProcess(c *fiber.Ctx) error {
	adminID, ok := middleware.AuthUserID(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request id")
	}
	var req processRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	processed, err := h.service.Process(c.UserContext(), id, adminID, req.Action, req.AdminNotes)
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, toResponse(processed))
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrRequestNotFound), errors.Is(err, ledger.ErrWalletNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotOwner):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidState):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrWalletInactive),
		errors.Is(err, ErrInvalidType),
		errors.Is(err, ErrInvalidAction),
		errors.Is(err, ErrAmountOutOfRange):
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

func toResponse(req Request) requestResponse {
	out := requestResponse{
		ID:             req.ID.String(),
		WalletID:       req.WalletID.String(),
		UserID:         req.UserID.String(),
		Type:           req.Type,
		Amount:         req.Amount,
		Status:         req.Status,
		UserNotes:      req.UserNotes,
		PaymentMethod:  req.PaymentMethod,
		PaymentDetails: req.PaymentDetails,
		AdminNotes:     req.AdminNotes,
		RequestedAt:    req.RequestedAt,
		ProcessedAt:    req.ProcessedAt,
	}
	if req.ProcessedBy != nil {
		s := req.ProcessedBy.String()
		out.ProcessedBy = &s
	}
	return out
}

func toResponses(items []Request) []requestResponse {
	out := make([]requestResponse, len(items))
	for i, req := range items {
		out[i] = toResponse(req)
	}
	return out
}
