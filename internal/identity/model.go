package identity

import (
	"time"

	"github.com/google/uuid"
)

// Roles understood by the platform. Admins may process wallet requests and
// apply manual adjustments.
const (
	RolePlayer = "player"
	RoleAdmin  = "admin"
)

// User represents a registered platform account.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	Role         string
	PasswordHash []byte
	TokenVersion int
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// Credentials carries login/registration input.
type Credentials struct {
	Username string
	Email    string
	Password string
}
