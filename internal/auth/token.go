// Package auth provides HMAC-signed session tokens.
// #IMPLEMENTATION_DECISION: HS256 chosen over asymmetric signing - tokens are
// issued and validated by the same process, no key distribution needed
// #SECURITY_ASSUMPTION: Token secret provided via environment variable
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Custom errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
	ErrEmptySecret   = errors.New("token secret must not be empty")
)

// SessionClaims represents the claims embedded in a session token.
// #BUSINESS_RULE: A token grants access to exactly one assessment session -
// respondents can never read or modify each other's answers
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"session_id"`
}

// IssuedToken is a signed session token with its expiry metadata
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	ExpiresIn int64     `json:"expires_in"`
}

// TokenService handles session token generation and validation
// #IMPLEMENTATION_DECISION: Service interface for testability
type TokenService interface {
	GenerateSessionToken(sessionID string) (*IssuedToken, error)
	ValidateSessionToken(tokenString string) (*SessionClaims, error)
}

// tokenService implements TokenService
type tokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
}

// TokenConfig holds token service configuration
type TokenConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// NewTokenService creates a new session token service instance
// #LIBRARY_CHOICE: golang-jwt/jwt/v5 - well-maintained, supports HS256
func NewTokenService(cfg TokenConfig) (TokenService, error) {
	if cfg.Secret == "" {
		return nil, ErrEmptySecret
	}

	issuer := cfg.Issuer
	if issuer == "" {
		issuer = "kval-assessment"
	}

	return &tokenService{
		secret: []byte(cfg.Secret),
		expiry: cfg.Expiry,
		issuer: issuer,
	}, nil
}

// GenerateSessionToken creates a signed token bound to a session
func (s *tokenService) GenerateSessionToken(sessionID string) (*IssuedToken, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiry)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		SessionID: sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &IssuedToken{
		Token:     tokenString,
		ExpiresAt: expiresAt,
		ExpiresIn: int64(s.expiry.Seconds()),
	}, nil
}

// ValidateSessionToken validates a token and returns its claims
func (s *tokenService) ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.SessionID == "" {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}
