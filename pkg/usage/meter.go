// Package usage meters anonymous free-tier consumption without server-side state.
// The counter lives in a signed token held by the client; the signature makes it
// tamper-evident, not secret.
package usage

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	uerrors "github.com/tubetext/tubetext/internal/usecase/errors"
)

// Claims carries the use counter inside the signed token.
type Claims struct {
	Count int `json:"count"`
	jwt.RegisteredClaims
}

// Grant is the outcome of a successful authorization: the refreshed token the
// caller must persist client-side, and the count it encodes.
type Grant struct {
	Token string
	Count int
}

// Meter enforces the anonymous free-tier quota.
type Meter struct {
	secret []byte
	limit  int
	window time.Duration
	issuer string
}

// NewMeter creates a meter. The key is process-wide and read-only after startup.
func NewMeter(secret string, limit int, window time.Duration) *Meter {
	return &Meter{
		secret: []byte(secret),
		limit:  limit,
		window: window,
		issuer: "tubetext-usage",
	}
}

// Limit returns the free-tier ceiling.
func (m *Meter) Limit() int {
	return m.limit
}

// Window returns the token lifetime.
func (m *Meter) Window() time.Duration {
	return m.window
}

// Authorize consumes one free use. An empty token starts a fresh counter at 1.
// A token that fails verification is rejected with ErrUsageTokenInvalid rather
// than treated as a fresh counter, so clients cannot reset their own quota by
// corrupting the cookie. Once the incremented count would exceed the ceiling,
// ErrQuotaExceeded is returned and no new token is issued.
func (m *Meter) Authorize(existing string) (*Grant, error) {
	count := 1
	if existing != "" {
		claims, err := m.verify(existing)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", uerrors.ErrUsageTokenInvalid, err)
		}
		count = claims.Count + 1
	}

	if count > m.limit {
		return nil, uerrors.ErrQuotaExceeded
	}

	token, err := m.sign(count)
	if err != nil {
		return nil, fmt.Errorf("failed to sign usage token: %w", err)
	}

	return &Grant{Token: token, Count: count}, nil
}

func (m *Meter) sign(count int) (string, error) {
	now := time.Now()
	claims := &Claims{
		Count: count,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.window)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Meter) verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid claims")
	}
	if claims.Count < 1 {
		return nil, fmt.Errorf("count out of range")
	}

	return claims, nil
}
