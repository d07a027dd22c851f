package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSessionToken indicates the token is malformed or its signature failed validation.
	ErrInvalidSessionToken = errors.New("invalid session token")
	// ErrExpiredSessionToken indicates the token has expired.
	ErrExpiredSessionToken = errors.New("session token expired")
)

// SessionTokenClaims carries the customer context inside an access token.
type SessionTokenClaims struct {
	CustomerID string `json:"cid"`
	jwt.RegisteredClaims
}

// SessionTokenIssuer signs and parses HS256 access tokens handed out after a
// successful login. Cookie and session storage mechanics stay with the caller.
type SessionTokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewSessionTokenIssuer constructs an issuer; the secret must be non-empty.
func NewSessionTokenIssuer(secret, issuer string, ttl time.Duration) (*SessionTokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("session token secret is required")
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionTokenIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (i *SessionTokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for the customer.
func (i *SessionTokenIssuer) Issue(customerID string) (string, error) {
	if customerID == "" {
		return "", fmt.Errorf("customer id is required")
	}

	now := time.Now().UTC()
	claims := SessionTokenClaims{
		CustomerID: customerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   customerID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return signed, nil
}

// Parse validates the token and returns its claims.
func (i *SessionTokenIssuer) Parse(token string) (*SessionTokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidSessionToken
	}

	claims := &SessionTokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithIssuer(i.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSessionToken
		}
		return nil, ErrInvalidSessionToken
	}

	if parsed == nil || !parsed.Valid || claims.CustomerID == "" {
		return nil, ErrInvalidSessionToken
	}

	return claims, nil
}
