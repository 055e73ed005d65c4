package handlers

import (
	"net/http"
	"time"

	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/models"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawHandler handles draw and participation history requests
type DrawHandler struct {
	lotteryService services.LotteryService
	sessionService services.DrawSessionService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(lotteryService services.LotteryService, sessionService services.DrawSessionService) *DrawHandler {
	return &DrawHandler{
		lotteryService: lotteryService,
		sessionService: sessionService,
	}
}

// DrawRequest identifies the participant for an authenticated draw
type DrawRequest struct {
	ParticipantID string `json:"participantId" binding:"required"`
}

// Draw handles POST /campaigns/:id/draws — one draw for an identified
// participant, with duplicate prevention and the interval check fed
// from that participant's ledger history.
func (h *DrawHandler) Draw(c *gin.Context) {
	campaignID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var req DrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	history, err := h.lotteryService.History(c.Request.Context(), campaignID, req.ParticipantID)
	if err != nil {
		respondError(c, err)
		return
	}
	alreadyWon := services.WonPrizeIDs(history)
	var lastParticipation *time.Time
	if len(history) > 0 {
		lastParticipation = &history[0].CreatedAt
	}

	outcome, err := h.lotteryService.Draw(c.Request.Context(), campaignID, req.ParticipantID, alreadyWon, lastParticipation, false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, outcome)
}

// KioskDrawRequest carries the chance token spent by a kiosk draw
type KioskDrawRequest struct {
	TokenID string `json:"tokenId" binding:"required"`
}

// KioskDraw handles POST /campaigns/:id/kiosk-draws — the anonymous
// token-gated flow. The session result is returned even on failure so
// the kiosk can render the state machine.
func (h *DrawHandler) KioskDraw(c *gin.Context) {
	campaignID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var req KioskDrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tokenID, err := primitive.ObjectIDFromHex(req.TokenID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token ID format"})
		return
	}

	result, err := h.sessionService.Play(c.Request.Context(), campaignID, tokenID)
	if err != nil {
		respondSessionError(c, err, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetHistory handles GET /campaigns/:id/outcomes?participantId=...
func (h *DrawHandler) GetHistory(c *gin.Context) {
	campaignID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	participantID := c.Query("participantId")
	if participantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "participantId query parameter is required"})
		return
	}
	outcomes, err := h.lotteryService.History(c.Request.Context(), campaignID, participantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcomes)
}

// UseCoupon handles POST /outcomes/:id/coupon-uses
func (h *DrawHandler) UseCoupon(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	outcome, err := h.lotteryService.UseCoupon(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// UpdateShipping handles PUT /outcomes/:id/shipping
func (h *DrawHandler) UpdateShipping(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var shipping models.ShippingInfo
	if err := c.ShouldBindJSON(&shipping); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	outcome, err := h.lotteryService.UpdateShipping(c.Request.Context(), id, shipping)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}
