package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
)

// ErrInvalidToken covers malformed, forged and expired session tokens.
var ErrInvalidToken = errors.New("invalid or expired session token")

// Claims are carried by locally issued session tokens.
type Claims struct {
	UserID string         `json:"user_id"`
	Email  string         `json:"email"`
	Role   constants.Role `json:"role"`
	Online bool           `json:"online"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HS256 session tokens.
type Signer struct {
	secret []byte
	now    func() time.Time
}

func NewSigner(secret []byte, now func() time.Time) *Signer {
	if now == nil {
		now = time.Now
	}
	return &Signer{secret: secret, now: now}
}

func tokenID(role constants.Role, at time.Time) string {
	stamp := constants.LocalUserIDStamp
	if role == constants.RoleAdmin {
		stamp = constants.AdminIDStamp
	}
	return fmt.Sprintf("%s%d", stamp, at.UnixMilli())
}

// Issue signs a token for the session user valid for the session TTL.
func (s *Signer) Issue(c Claims) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(constants.SessionTTL)
	c.RegisteredClaims = jwt.RegisteredClaims{
		ID:        tokenID(c.Role, now),
		Subject:   c.UserID,
		Issuer:    constants.AppName,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, exp, nil
}

func (s *Signer) Verify(tokenString string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(constants.AppName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &claims, nil
}
