package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"womart-storefront/models"
)

// ErrNoSigningKey is returned by VerifyToken when no secret is configured.
var ErrNoSigningKey = errors.New("no token signing key configured")

// SessionFromToken decodes the token returned by the backend login call
// into a Session. The signature is not verified; only use it on tokens
// received directly from the backend.
func SessionFromToken(token string) (*models.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return sessionFromClaims(claims, token)
}

// VerifyToken checks an HMAC-signed token against secret and decodes it.
// Tokens presented by clients must go through here.
func VerifyToken(token string, secret []byte) (*models.Session, error) {
	if len(secret) == 0 {
		return nil, ErrNoSigningKey
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return sessionFromClaims(claims, token)
}

func sessionFromClaims(claims jwt.MapClaims, token string) (*models.Session, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		// some backend builds put a numeric id in sub
		if n, ok := claims["sub"].(float64); ok {
			sub = fmt.Sprintf("%.0f", n)
		}
	}
	if sub == "" {
		return nil, fmt.Errorf("invalid token claims: missing sub")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &models.Session{
		ID:    sub,
		Email: email,
		Role:  role,
		Token: token,
	}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
