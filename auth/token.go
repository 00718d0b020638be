package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken covers signature mismatch, malformed tokens and
	// expired tokens alike; callers map it to 401.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingSubject is returned for tokens that verify but carry no
	// subject claim. Also a 401 at the boundary.
	ErrMissingSubject = errors.New("token has no subject")
	// ErrNoSecret is returned when the issuer was built without a secret
	// key. That is a configuration error and fatal at startup.
	ErrNoSecret = errors.New("secret key is not set")
)

// DefaultTokenTTL is used when an issuer is constructed with a zero ttl.
const DefaultTokenTTL = 15 * time.Minute

// TokenIssuer issues and verifies HS256-signed bearer tokens. Tokens are
// stateless: there is no server-side session store and no revocation
// before expiry.
type TokenIssuer struct {
	secretKey string
	ttl       time.Duration
}

// NewTokenIssuer creates an issuer with the process-wide secret. A zero
// ttl falls back to DefaultTokenTTL.
func NewTokenIssuer(secretKey string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secretKey: secretKey, ttl: ttl}
}

// Issue signs a token carrying subject as the "sub" claim, expiring at
// now + ttl.
func (t *TokenIssuer) Issue(subject string) (string, error) {
	if t.secretKey == "" {
		return "", ErrNoSecret
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.secretKey))
}

// Verify checks signature and expiry and returns the subject claim.
func (t *TokenIssuer) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(t.secretKey), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}

	return claims.Subject, nil
}
