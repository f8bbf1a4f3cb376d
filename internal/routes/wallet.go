package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/requests"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/wallet"
)

// RegisterWalletRoutes wires the user-facing wallet endpoints.
func RegisterWalletRoutes(r fiber.Router, wh *wallet.Handler, rh *requests.Handler) {
	group := r.Group("/wallet")
	group.Get("", wh.Wallet)
	group.Get("/transactions", wh.Transactions)
	group.Post("/requests", rh.Submit)
	group.Get("/requests", rh.List)
	group.Get("/requests/:id", rh.Get)
	group.Patch("/requests/:id/cancel", rh.Cancel)
}
