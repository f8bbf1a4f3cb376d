package wallet

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/middleware"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/respond"
)

// AdminHandler exposes the admin wallet endpoints. Routes mounting it must
// run behind the AdminOnly middleware.
type AdminHandler struct {
	service *Service
}

// NewAdminHandler builds an admin wallet handler.
func NewAdminHandler(service *Service) *AdminHandler {
	return &AdminHandler{service: service}
}

type adjustRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// List returns all wallets for the admin overview.
func (h *AdminHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	items, total, err := h.service.List(c.UserContext(), page)
	if err != nil {
		return mapError(err)
	}
	return respond.Page(c, http.StatusOK, toWalletResponses(items), page.Number, page.Size, total)
}

// Create provisions a wallet for the given user, surfacing a conflict when
// one already exists.
func (h *AdminHandler) Create(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid user id")
	}
	w, err := h.service.Create(c.UserContext(), userID)
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusCreated, toWalletResponse(w))
}

// Adjust applies a direct signed balance correction to the user's wallet.
func (h *AdminHandler) Adjust(c *fiber.Ctx) error {
	adminID, ok := middleware.AuthUserID(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid user id")
	}
	var req adjustRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	rec, err := h.service.ManualAdjust(c.UserContext(), userID, req.Amount, adminID, req.Description)
	if err != nil {
		return mapError(err)
	}
	return respond.OK(c, http.StatusOK, toTransactionResponse(rec))
}
