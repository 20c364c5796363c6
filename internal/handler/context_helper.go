package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/middleware"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
	appErrors "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return nil
	}
	return claims
}

// ownEmail resolves the ?email= query for self-service listings to the token email. An empty
// query means the caller; any other address than the caller's is forbidden.
func ownEmail(c *gin.Context) (string, error) {
	claims := claimsFromContext(c)
	if claims == nil {
		return "", appErrors.ErrUnauthorized
	}
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		return claims.Email, nil
	}
	if !strings.EqualFold(email, claims.Email) {
		return "", appErrors.ErrForbidden
	}
	return claims.Email, nil
}

func idParam(c *gin.Context) (string, error) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", appErrors.Validation(err, "invalid id")
	}
	return id, nil
}

func invalidPayload(err error) error {
	return appErrors.Validation(err, "invalid payload")
}
