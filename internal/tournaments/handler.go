package tournaments

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/ledger"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/middleware"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/respond"
)

// Handler exposes tournament billing endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a tournament billing handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type feeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type prizeRequest struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// Fee charges the caller an entry fee for a tournament.
func (h *Handler) Fee(c *fiber.Ctx) error {
	userID, ok := middleware.AuthUserID(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	tournamentID, err := uuid.Parse(c.Params("tournamentId"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid tournament id")
	}
	var req feeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	rec, err := h.service.ChargeEntryFee(c.UserContext(), FeeInput{
		UserID:       userID,
		TournamentID: tournamentID,
		Amount:       req.Amount,
	})
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusCreated, fiber.Map{
		"transaction_id": rec.ID,
		"kind":           rec.Kind,
		"balance":        rec.BalanceAfter,
	})
}

// Prize awards tournament winnings to a player. Admin only.
func (h *Handler) Prize(c *fiber.Ctx) error {
	adminID, ok := middleware.AuthUserID(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	tournamentID, err := uuid.Parse(c.Params("tournamentId"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid tournament id")
	}
	var req prizeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid user id")
	}

	rec, err := h.service.AwardPrize(c.UserContext(), PrizeInput{
		UserID:       userID,
		TournamentID: tournamentID,
		Amount:       req.Amount,
		AwardedBy:    adminID,
	})
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusCreated, fiber.Map{
		"transaction_id": rec.ID,
		"kind":           rec.Kind,
		"balance":        rec.BalanceAfter,
	})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrWalletNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrWalletInactive),
		errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
