package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

type tokenRequest struct {
	AdminKey string `json:"admin_key" binding:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Handler exchanges the shared admin key for a JWT that grants access
// to the balancer's admin endpoints.
type Handler struct {
	adminKey string
	tokens   TokenManager
}

func NewHandler(adminKey string, tokens TokenManager) *Handler {
	return &Handler{adminKey: adminKey, tokens: tokens}
}

func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/token", h.IssueToken)
}

func (h *Handler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.AdminKey), []byte(h.adminKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidAdminKey.Error()})
		return
	}

	token, err := h.tokens.GenerateToken("admin")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: token})
}
