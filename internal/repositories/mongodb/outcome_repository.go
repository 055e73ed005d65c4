package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/apperrors"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/models"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OutcomeRepository implements repositories.OutcomeRepository
type OutcomeRepository struct {
	collection *mongo.Collection
}

// NewOutcomeRepository creates a new OutcomeRepository
func NewOutcomeRepository(db *mongo.Database) repositories.OutcomeRepository {
	return &OutcomeRepository{
		collection: db.Collection("draw_outcomes"),
	}
}

// Create appends one outcome record. CreatedAt is server-assigned.
func (r *OutcomeRepository) Create(ctx context.Context, outcome *models.DrawOutcome) error {
	outcome.CreatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, outcome)
	if err != nil {
		return err
	}
	outcome.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds an outcome by ID
func (r *OutcomeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.DrawOutcome, error) {
	var outcome models.DrawOutcome
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&outcome)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("outcome not found: " + id.Hex())
		}
		return nil, err
	}
	return &outcome, nil
}

// FindByCampaignAndParticipant returns all outcomes for the pair,
// newest first
func (r *OutcomeRepository) FindByCampaignAndParticipant(ctx context.Context, campaignID primitive.ObjectID, participantID string) ([]*models.DrawOutcome, error) {
	filter := bson.M{
		"campaignId":    campaignID,
		"participantId": participantID,
	}
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var outcomes []*models.DrawOutcome
	if err := cursor.All(ctx, &outcomes); err != nil {
		return nil, err
	}
	if outcomes == nil {
		outcomes = []*models.DrawOutcome{}
	}
	return outcomes, nil
}

// Update writes back the mutable post-draw fields (coupon usage,
// shipping). The draw-time fields are never touched here.
func (r *OutcomeRepository) Update(ctx context.Context, outcome *models.DrawOutcome) error {
	update := bson.M{"$set": bson.M{
		"couponUsedCount": outcome.CouponUsedCount,
		"couponUsedAt":    outcome.CouponUsedAt,
		"shipping":        outcome.Shipping,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": outcome.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("outcome not found: " + outcome.ID.Hex())
	}
	return nil
}
