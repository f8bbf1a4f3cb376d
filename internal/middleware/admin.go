package middleware

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/identity"
)

// AdminOnly gates a route group to admin accounts. Must run after JWTAuth.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if AuthRole(c) != identity.RoleAdmin {
			return fiber.NewError(http.StatusForbidden, "admin access required")
		}
		return c.Next()
	}
}
