package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/requests"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/tournaments"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/wallet"
)

// RegisterAdminRoutes wires the admin-only wallet management endpoints. The
// caller mounts this group behind JWTAuth and AdminOnly.
func RegisterAdminRoutes(r fiber.Router, wh *wallet.AdminHandler, rh *requests.Handler, th *tournaments.Handler) {
	r.Get("/wallets", wh.List)
	r.Get("/wallets/requests", rh.AdminList)
	r.Patch("/wallets/requests/:id/process", rh.AdminProcess)
	r.Post("/wallets/:userId/adjust", wh.Adjust)
	r.Post("/wallets/:userId/create", wh.Create)
	r.Post("/tournaments/:tournamentId/prize", th.Prize)
}
