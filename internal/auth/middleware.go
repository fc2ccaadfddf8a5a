package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Bearer parses an optional bearer JWT and attaches its claims to the request context.
// Requests without a valid token continue anonymously; the record service decides
// whether the caller is authorized, so every procedure fails the same way.
func Bearer(signingKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz != "" && strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			tokenStr := strings.TrimSpace(authz[len("bearer "):])
			if claims, err := Parse(tokenStr, signingKey, issuer); err == nil {
				c.Set("claims", claims)
				c.Request = c.Request.WithContext(WithClaims(c.Request.Context(), claims))
			}
		}
		c.Next()
	}
}
