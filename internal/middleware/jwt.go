package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/auth/token"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/config"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/identity"
)

const (
	localUserID = "user_id"
	localRole   = "role"
)

// JWTAuth validates bearer tokens, checks the token version against the user
// record, and stores the caller's id and role in request locals.
func JWTAuth(cfg config.Config, repo identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		claims, err := token.ParseAndVerifyHS256(tokenStr, []byte(cfg.JWTSecret))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}
		sub, _ := claims["sub"].(string)
		verFloat, _ := claims["ver"].(float64)
		ver := int(verFloat)

		userID, err := uuid.Parse(sub)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		user, err := repo.FindByID(c.UserContext(), userID)
		if err != nil || user.TokenVersion != ver {
			return fiber.NewError(http.StatusUnauthorized, "token invalidated")
		}

		c.Locals(localUserID, user.ID)
		c.Locals(localRole, user.Role)
		return c.Next()
	}
}

// AuthUserID returns the authenticated user's id from request locals.
func AuthUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(localUserID).(uuid.UUID)
	return id, ok
}

// AuthRole returns the authenticated user's role from request locals.
func AuthRole(c *fiber.Ctx) string {
	role, _ := c.Locals(localRole).(string)
	return role
}
