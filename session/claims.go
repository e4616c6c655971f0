package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	bookerrors "github.com/jrsteele09/go-booking-client/internal/errors"
)

// Claims are the fields of an access token the client cares about. The token
// is decoded without signature verification; only the API can verify it.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the token expiry is set and lies before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// ParseClaims decodes the payload of a JWT access token.
func ParseClaims(token string) (*Claims, error) {
	if token == "" {
		return nil, bookerrors.ErrUnauthorized
	}
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return nil, bookerrors.Wrapf(bookerrors.ErrInvalidToken, "parse access token: %v", err)
	}

	c := &Claims{}
	if sub, ok := mc["sub"]; ok && sub != nil {
		switch v := sub.(type) {
		case string:
			c.Subject = v
		case float64:
			c.Subject = fmt.Sprintf("%.0f", v)
		default:
			c.Subject = fmt.Sprint(v)
		}
	}
	if role, ok := mc["role"].(string); ok {
		c.Role = role
	}
	exp, err := mc.GetExpirationTime()
	if err != nil {
		return nil, bookerrors.Wrapf(bookerrors.ErrInvalidToken, "exp claim: %v", err)
	}
	if exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

// Claims decodes the current access token.
func (m *Manager) Claims() (*Claims, error) {
	return ParseClaims(m.AccessToken())
}
