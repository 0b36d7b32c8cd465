// README: Bearer-token auth middleware; puts caller identity on the context.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"unipool/internal/infra"
	"unipool/internal/types"
)

const (
	ctxKeyCallerID   = "caller_id"
	ctxKeyCallerRole = "caller_role"
)

// Auth rejects requests without a valid "Authorization: Bearer <token>" header
// and stores the verified user id and role for handlers.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := verifier.Verify(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxKeyCallerID, claims.UserID)
		c.Set(ctxKeyCallerRole, claims.Role)
		c.Next()
	}
}

// CallerID returns the authenticated user id, or 0 when unauthenticated.
func CallerID(c *gin.Context) types.ID {
	if v, ok := c.Get(ctxKeyCallerID); ok {
		if id, ok := v.(types.ID); ok {
			return id
		}
	}
	return 0
}

// CallerRole returns the authenticated role, or "" when unauthenticated.
func CallerRole(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyCallerRole); ok {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

// RequireRole gates a route group to one role. Runs after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerRole(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
