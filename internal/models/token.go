package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Token is a kiosk-scoped, expiring bucket of draw chances independent
// of user identity. RemainingChances only decreases, except for the +1
// compensation after a failed draw.
type Token struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Expires          time.Time          `bson:"expires" json:"expires"`
	Chances          int                `bson:"chances" json:"chances"`
	RemainingChances int                `bson:"remainingChances" json:"remainingChances"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	LastUsedAt       *time.Time         `bson:"lastUsedAt,omitempty" json:"lastUsedAt,omitempty"`
}

// Expired reports whether the token is past its expiry at t
func (t *Token) Expired(at time.Time) bool {
	return at.After(t.Expires)
}

// DrawSessionState is the observable state of one kiosk draw attempt
type DrawSessionState string

const (
	SessionReady     DrawSessionState = "READY"
	SessionConsuming DrawSessionState = "CONSUMING"
	SessionSettled   DrawSessionState = "SETTLED"
	SessionRestoring DrawSessionState = "RESTORING"
	SessionDepleted  DrawSessionState = "DEPLETED" // terminal: no chances left
	SessionExpired   DrawSessionState = "EXPIRED"  // terminal: token expired
)
