package repositories

import (
	"context"

	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TxnRunner executes fn atomically against the backing store. Every
// write issued through ctx inside fn commits together or not at all;
// a conflicting concurrent transaction aborts fn and the store retries
// it against the latest committed state.
type TxnRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CampaignRepository defines the interface for prize catalog operations
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error)
	Update(ctx context.Context, campaign *models.Campaign) error
}

// OutcomeRepository defines the interface for the participation ledger.
// Outcomes are appended once per draw and never deleted; Update exists
// only for the post-draw coupon/shipping fields.
type OutcomeRepository interface {
	Create(ctx context.Context, outcome *models.DrawOutcome) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.DrawOutcome, error)
	// FindByCampaignAndParticipant returns all outcomes for the pair,
	// newest first.
	FindByCampaignAndParticipant(ctx context.Context, campaignID primitive.ObjectID, participantID string) ([]*models.DrawOutcome, error)
	Update(ctx context.Context, outcome *models.DrawOutcome) error
}

// TokenRepository defines the interface for chance token operations.
// DecrementRemaining is a compare-and-swap keyed on the remaining
// value the caller read; it returns apperrors.ErrConflict when a
// concurrent consumer committed first.
type TokenRepository interface {
	Create(ctx context.Context, token *models.Token) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Token, error)
	DecrementRemaining(ctx context.Context, id primitive.ObjectID, expectedRemaining int) error
	IncrementRemaining(ctx context.Context, id primitive.ObjectID) error
}

// AdminUserRepository defines the interface for operator accounts
type AdminUserRepository interface {
	Create(ctx context.Context, user *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
}
