package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
	appErrors "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/errors"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*models.JWTClaims, error)
}

// RoleChecker answers whether a stored user holds a role.
type RoleChecker interface {
	HasRole(ctx context.Context, email string, role models.UserRole) (bool, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the claims
// under ContextUserKey.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}

		claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// RequireRole lets the request through only when the caller's stored role is role.
// It must run after RequireAuth.
func RequireRole(users RoleChecker, role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}

		allowed, err := users.HasRole(c.Request.Context(), claims.Email, role)
		if err != nil {
			response.Abort(c, err)
			return
		}
		if !allowed {
			response.Abort(c, appErrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequireAdmin is RequireRole for administrators.
func RequireAdmin(users RoleChecker) gin.HandlerFunc {
	return RequireRole(users, models.RoleAdmin)
}

// CurrentUser returns the claims stored by RequireAuth.
func CurrentUser(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok && claims != nil
}
