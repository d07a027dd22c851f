package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/thelia-modules/LoginWithPhone/internal/infra/security"
)

const (
	// CustomerIDKey is the context key holding the authenticated customer ID.
	CustomerIDKey = "customer_id"
	// SessionClaimsKey is the context key holding the parsed session claims.
	SessionClaimsKey = "session_claims"
)

// RequireSession validates the Bearer session token and stores the customer
// context for downstream handlers.
func RequireSession(tokens *security.SessionTokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session tokens unavailable"})
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := bearerToken(header)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session token"})
			return
		}

		c.Set(CustomerIDKey, claims.CustomerID)
		c.Set(SessionClaimsKey, claims)

		c.Next()
	}
}

// CustomerIDFromContext returns the authenticated customer ID, if any.
func CustomerIDFromContext(c *gin.Context) (string, bool) {
	raw, exists := c.Get(CustomerIDKey)
	if !exists {
		return "", false
	}

	id, ok := raw.(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
