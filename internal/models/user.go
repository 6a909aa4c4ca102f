package models

import (
	"time"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
)

// User is an account known to the local registry. PasswordHash is only set
// for accounts created offline.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Name         string         `json:"name"`
	Role         constants.Role `json:"role"`
	PasswordHash string         `json:"password_hash,omitempty"`
	RegisteredAt time.Time      `json:"registered_at"`
	LastLogin    *time.Time     `json:"last_login,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == constants.RoleAdmin
}
