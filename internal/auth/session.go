package auth

import (
	"time"

	"github.com/iamhollywoodpro/strivetrack/internal/models"
)

// Session is the signed-in user. It is created at login, persisted for
// reuse by later CLI invocations and removed at logout.
type Session struct {
	User models.User `json:"user"`
	// Token is the locally signed session token.
	Token string `json:"token"`
	// BackendToken is the hosted backend access token, empty when offline.
	BackendToken string    `json:"backend_token,omitempty"`
	Online       bool      `json:"online"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s *Session) UserID() string {
	return s.User.ID
}
