package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/response"
)

type tokenIssuer interface {
	Issue(req models.TokenRequest) (*models.TokenResponse, error)
}

// TokenHandler exchanges a signed-in identity for a bearer token.
type TokenHandler struct {
	tokens tokenIssuer
}

// NewTokenHandler constructs a token handler.
func NewTokenHandler(tokens tokenIssuer) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// Issue godoc
// @Summary Issue bearer token
// @Description Signs email and name into a token valid for one hour. Other body fields are ignored
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.TokenRequest true "Identity"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} response.ErrorBody
// @Router /jwt [post]
func (h *TokenHandler) Issue(c *gin.Context) {
	var req models.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}

	token, err := h.tokens.Issue(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, token)
}
