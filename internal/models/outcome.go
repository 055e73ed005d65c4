package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawOutcome is the immutable participation record appended once per
// draw. The Prize field is a deep snapshot taken at draw time; later
// catalog edits never alter it. Only the coupon-usage and shipping
// fields are mutated afterwards, and only by the downstream flows.
type DrawOutcome struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CampaignID    primitive.ObjectID `bson:"campaignId" json:"campaignId"`
	ParticipantID string             `bson:"participantId" json:"participantId"` // user id or kiosk token id
	PrizeID       string             `bson:"prizeId" json:"prizeId"`             // LossPrizeID on a losing draw
	Prize         Prize              `bson:"prize" json:"prize"`                 // snapshot at draw time
	IsConsolation bool               `bson:"isConsolation" json:"isConsolation"`
	WonCode       string             `bson:"wonCode,omitempty" json:"wonCode,omitempty"` // CODE prizes only
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`                 // server-assigned

	// Post-draw fields owned by downstream flows, never by the allocator.
	CouponUsedCount int             `bson:"couponUsedCount" json:"couponUsedCount"`
	CouponUsedAt    []time.Time     `bson:"couponUsedAt,omitempty" json:"couponUsedAt,omitempty"`
	Shipping        *ShippingInfo   `bson:"shipping,omitempty" json:"shipping,omitempty"`
}

// IsWin reports whether the draw awarded a prize
func (o *DrawOutcome) IsWin() bool {
	return o.PrizeID != LossPrizeID
}

// ShippingInfo is the delivery address captured after winning a
// physical prize
type ShippingInfo struct {
	Name       string    `bson:"name" json:"name"`
	PostalCode string    `bson:"postalCode" json:"postalCode"`
	Address    string    `bson:"address" json:"address"`
	Phone      string    `bson:"phone,omitempty" json:"phone,omitempty"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}
