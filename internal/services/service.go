package services

import (
	"context"
	"time"

	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LotteryService performs the atomic weighted prize draw
type LotteryService interface {
	// Draw runs one draw for a participant against a campaign catalog.
	// alreadyWonPrizeIDs feeds duplicate prevention; lastParticipation
	// (nil when unknown) feeds the interval check, which the token-gated
	// kiosk flow skips because the chance ledger is its rate limiter.
	Draw(ctx context.Context, campaignID primitive.ObjectID, participantID string, alreadyWonPrizeIDs []string, lastParticipation *time.Time, skipIntervalCheck bool) (*models.DrawOutcome, error)
	// History returns the participation ledger entries for a
	// participant, newest first.
	History(ctx context.Context, campaignID primitive.ObjectID, participantID string) ([]*models.DrawOutcome, error)
	// UseCoupon and UpdateShipping are the downstream post-draw flows;
	// they mutate outcome records only, never catalog stock.
	UseCoupon(ctx context.Context, outcomeID primitive.ObjectID) (*models.DrawOutcome, error)
	UpdateShipping(ctx context.Context, outcomeID primitive.ObjectID, shipping models.ShippingInfo) (*models.DrawOutcome, error)
}

// TokenService is the chance ledger for kiosk participation
type TokenService interface {
	Issue(ctx context.Context, expires time.Time, totalChances int) (*models.Token, error)
	// Consume spends one chance and returns the remaining count after
	// the decrement. The returned value is authoritative; separate
	// reads may be stale while a compensation is pending.
	Consume(ctx context.Context, id primitive.ObjectID) (int, error)
	// Restore adds exactly one chance back. Compensation only; callers
	// must pair each call with one prior successful Consume.
	Restore(ctx context.Context, id primitive.ObjectID) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Token, error)
}

// DrawSessionService sequences one kiosk draw attempt:
// consume a chance, invoke the allocator, restore on failure.
type DrawSessionService interface {
	Play(ctx context.Context, campaignID, tokenID primitive.ObjectID) (*DrawSessionResult, error)
}

// CampaignService manages the catalog documents the allocator draws from
type CampaignService interface {
	Create(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error)
}

// AuthService authenticates operators of the admin surface
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AdminUser, error)
	Login(ctx context.Context, req *models.LoginRequest) (string, error) // returns a signed JWT
}
