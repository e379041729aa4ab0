// Package middleware provides HTTP middleware for Gin framework.
// #IMPLEMENTATION_DECISION: Middleware chain for session auth and logging
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kval-tools/assessment_backend/internal/auth"
)

// Context keys for storing session data
// #INTEGRATION_POINT: Handlers extract the session ID using these keys
const (
	ContextKeySessionID = "session_id"
	ContextKeyClaims    = "claims"
)

// Custom errors
var (
	ErrAuthHeaderMissing = errors.New("authorization header is required")
	ErrAuthHeaderFormat  = errors.New("authorization header format must be Bearer {token}")
	ErrInvalidToken      = errors.New("invalid or expired token")
)

// SessionAuth validates the session token and binds the request to its session.
// #BUSINESS_RULE: A token grants access to exactly one session; there is no
// cross-session visibility
func SessionAuth(tokenService auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": ErrAuthHeaderMissing.Error(),
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": ErrAuthHeaderFormat.Error(),
			})
			c.Abort()
			return
		}

		claims, err := tokenService.ValidateSessionToken(parts[1])
		if err != nil {
			message := ErrInvalidToken.Error()
			if errors.Is(err, auth.ErrTokenExpired) {
				message = "token has expired"
			}

			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": message,
			})
			c.Abort()
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeySessionID, claims.SessionID)

		c.Next()
	}
}

// GetSessionID extracts the authenticated session ID from context
func GetSessionID(c *gin.Context) (string, bool) {
	sessionIDVal, exists := c.Get(ContextKeySessionID)
	if !exists {
		return "", false
	}

	sessionID, ok := sessionIDVal.(string)
	if !ok || sessionID == "" {
		return "", false
	}

	return sessionID, true
}

// GetClaims extracts the full session claims from context
func GetClaims(c *gin.Context) (*auth.SessionClaims, bool) {
	claimsVal, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, false
	}

	claims, ok := claimsVal.(*auth.SessionClaims)
	if !ok {
		return nil, false
	}

	return claims, true
}
