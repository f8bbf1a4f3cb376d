package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/tournaments"
)

// RegisterTournamentRoutes wires the player-facing tournament billing endpoints.
func RegisterTournamentRoutes(r fiber.Router, h *tournaments.Handler) {
	r.Post("/tournaments/:tournamentId/fee", h.Fee)
}
