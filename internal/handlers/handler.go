package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/apperrors"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/services"
	"github.com/gin-gonic/gin"
)

// statusAndBody maps application error kinds onto an HTTP status and
// response body. The services never translate kinds themselves;
// user-facing messaging is the caller's job per the propagation policy.
func statusAndBody(c *gin.Context, err error) (int, gin.H) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, gin.H{"error": err.Error()}
	}

	body := gin.H{"error": appErr.Message, "kind": string(appErr.Kind)}
	switch appErr.Kind {
	case apperrors.KindRateLimited:
		seconds := int(appErr.Remaining.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(seconds))
		body["retryAfterSeconds"] = seconds
		return http.StatusTooManyRequests, body
	case apperrors.KindOutOfStock, apperrors.KindNoChancesLeft:
		return http.StatusConflict, body
	case apperrors.KindExpiredToken:
		return http.StatusGone, body
	case apperrors.KindNotFound:
		return http.StatusNotFound, body
	case apperrors.KindConflictRetryExhausted:
		return http.StatusServiceUnavailable, body
	case apperrors.KindValidation:
		return http.StatusUnprocessableEntity, body
	default:
		return http.StatusInternalServerError, body
	}
}

func respondError(c *gin.Context, err error) {
	status, body := statusAndBody(c, err)
	c.JSON(status, body)
}

// respondSessionError renders a failed kiosk draw with the session
// state attached, so the kiosk can distinguish DEPLETED/EXPIRED from a
// transient failure.
func respondSessionError(c *gin.Context, err error, result *services.DrawSessionResult) {
	status, body := statusAndBody(c, err)
	if result != nil {
		body["session"] = result
	}
	c.JSON(status, body)
}
