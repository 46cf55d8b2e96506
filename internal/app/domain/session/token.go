package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lmendo/tripdesk/internal/app/models"
	"github.com/lmendo/tripdesk/internal/pkg/config"
)

// Claims is what the session cookie carries: the store key plus a role
// snapshot so route guards can decide synchronously, without a network call.
// The backend bearer token rides along too: it is the browser's own
// credential (the SPA this replaces kept it in localStorage), and carrying it
// lets a valid cookie silently re-authenticate after the in-memory store is
// lost on restart.
type Claims struct {
	SessionID string      `json:"sid"`
	Role      models.Role `json:"role,omitempty"`
	Token     string      `json:"tok,omitempty"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies the session cookie.
type TokenCodec struct {
	cfg config.SessionConfig
}

func NewTokenCodec(cfg config.SessionConfig) *TokenCodec {
	return &TokenCodec{cfg: cfg}
}

// Issue signs a cookie value for a session.
func (t *TokenCodec) Issue(sessionID string, role models.Role, bearer string) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: sessionID,
		Role:      role,
		Token:     bearer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.cfg.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(t.cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a cookie value. Expired or tampered cookies are treated as
// no session at all.
func (t *TokenCodec) Verify(value string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(t.cfg.SecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrUnauthenticated, err)
	}
	if !token.Valid || claims.SessionID == "" {
		return nil, models.ErrUnauthenticated
	}
	return claims, nil
}
