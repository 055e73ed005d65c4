package models

import (
	"time"

	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/apperrors"
)

// PrizeType discriminates how a prize is fulfilled
type PrizeType string

const (
	PrizeTypePhysical PrizeType = "PHYSICAL"
	PrizeTypeCode     PrizeType = "CODE"   // pre-allocated code pool, one code per win
	PrizeTypeCoupon   PrizeType = "COUPON" // redeemable coupon with a use limit
)

// LossPrizeID is the sentinel prize id recorded on a losing draw
const LossPrizeID = "-"

// Prize defines a single prize within a campaign's catalog
type Prize struct {
	PrizeID     string     `bson:"prizeId" json:"prizeId"` // unique within the campaign
	Rank        string     `bson:"rank" json:"rank"`       // display label, e.g. "1st"
	Weight      float64    `bson:"weight" json:"weight"`   // relative, not normalized
	Stock       int        `bson:"stock" json:"stock"`     // never negative; for CODE prizes equals len(Codes)
	Unlimited   bool       `bson:"unlimited" json:"unlimited"`
	Type        PrizeType  `bson:"type" json:"type"`
	Codes       []string   `bson:"codes,omitempty" json:"codes,omitempty"` // CODE prizes only
	ValidFrom   *time.Time `bson:"validFrom,omitempty" json:"validFrom,omitempty"`
	ValidTo     *time.Time `bson:"validTo,omitempty" json:"validTo,omitempty"`
	CouponLimit int        `bson:"couponLimit,omitempty" json:"couponLimit,omitempty"` // COUPON prizes: max uses per won coupon, 0 = unlimited
	Wins        int        `bson:"wins" json:"wins"`
}

// Validate checks the variant rules for a catalog entry. It runs at
// catalog load time so the allocator never sees a malformed prize.
func (p *Prize) Validate() error {
	if p.PrizeID == "" {
		return apperrors.Validation("prize id is required")
	}
	if p.Weight < 0 {
		return apperrors.Validation("prize weight must not be negative")
	}
	if p.Stock < 0 {
		return apperrors.Validation("prize stock must not be negative")
	}
	switch p.Type {
	case PrizeTypePhysical, PrizeTypeCoupon:
		if len(p.Codes) > 0 {
			return apperrors.Validation("only CODE prizes may carry a code pool")
		}
	case PrizeTypeCode:
		if !p.Unlimited && p.Stock != len(p.Codes) {
			return apperrors.Validation("CODE prize stock must equal the remaining code pool length")
		}
	default:
		return apperrors.Validation("unknown prize type: " + string(p.Type))
	}
	if p.ValidFrom != nil && p.ValidTo != nil && p.ValidTo.Before(*p.ValidFrom) {
		return apperrors.Validation("prize validity window ends before it starts")
	}
	return nil
}

// HasStock reports whether the prize can still be won
func (p *Prize) HasStock() bool {
	return p.Unlimited || p.Stock > 0
}

// ValidAt reports whether the prize's validity window covers t.
// A missing bound is open-ended.
func (p *Prize) ValidAt(t time.Time) bool {
	if p.ValidFrom != nil && t.Before(*p.ValidFrom) {
		return false
	}
	if p.ValidTo != nil && t.After(*p.ValidTo) {
		return false
	}
	return true
}

// PopCode removes and returns the last code of the pool, keeping the
// stock counter equal to the pool length. ok is false when the pool is
// unexpectedly empty.
func (p *Prize) PopCode() (string, bool) {
	if len(p.Codes) == 0 {
		p.Stock = 0
		return "", false
	}
	code := p.Codes[len(p.Codes)-1]
	p.Codes = p.Codes[:len(p.Codes)-1]
	p.Stock = len(p.Codes)
	return code, true
}

// Snapshot returns a deep copy of the prize so outcome records are
// immune to later catalog edits.
func (p *Prize) Snapshot() Prize {
	cp := *p
	if p.Codes != nil {
		cp.Codes = append([]string(nil), p.Codes...)
	}
	if p.ValidFrom != nil {
		t := *p.ValidFrom
		cp.ValidFrom = &t
	}
	if p.ValidTo != nil {
		t := *p.ValidTo
		cp.ValidTo = &t
	}
	return cp
}

// LossPrize returns the placeholder prize shape recorded for a losing
// draw: rank "-", no stock, CODE type as a harmless default.
func LossPrize() Prize {
	return Prize{
		PrizeID: LossPrizeID,
		Rank:    "-",
		Type:    PrizeTypeCode,
	}
}
