package handlers

import (
	"net/http"
	"time"

	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenHandler handles chance token requests
type TokenHandler struct {
	tokenService services.TokenService
}

// NewTokenHandler creates a new TokenHandler
func NewTokenHandler(tokenService services.TokenService) *TokenHandler {
	return &TokenHandler{tokenService: tokenService}
}

// IssueTokenRequest is the operator request to mint a kiosk token
type IssueTokenRequest struct {
	ExpiresAt string `json:"expiresAt" binding:"required"` // RFC 3339
	Chances   int    `json:"chances" binding:"required"`
}

// IssueToken handles POST /tokens (operator only)
func (h *TokenHandler) IssueToken(c *gin.Context) {
	var req IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	expires, err := time.Parse(time.RFC3339, req.ExpiresAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expiresAt format (RFC 3339)"})
		return
	}
	token, err := h.tokenService.Issue(c.Request.Context(), expires, req.Chances)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, token)
}

// GetToken handles GET /tokens/:id. The remainingChances here is a
// plain read: while a draw is in flight it may lag the value Consume
// or Restore returned, so kiosk UIs should prefer those.
func (h *TokenHandler) GetToken(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	token, err := h.tokenService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}
