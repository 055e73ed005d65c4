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
)

// TokenRepository implements repositories.TokenRepository
type TokenRepository struct {
	collection *mongo.Collection
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *mongo.Database) repositories.TokenRepository {
	return &TokenRepository{
		collection: db.Collection("tokens"),
	}
}

// Create inserts a freshly issued token
func (r *TokenRepository) Create(ctx context.Context, token *models.Token) error {
	token.CreatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, token)
	if err != nil {
		return err
	}
	token.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a token by ID
func (r *TokenRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Token, error) {
	var token models.Token
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&token)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("token not found: " + id.Hex())
		}
		return nil, err
	}
	return &token, nil
}

// DecrementRemaining spends one chance with a compare-and-swap: the
// update matches only while remainingChances still equals the value
// the caller read. A lost race surfaces apperrors.ErrConflict so the
// caller can re-read and retry.
func (r *TokenRepository) DecrementRemaining(ctx context.Context, id primitive.ObjectID, expectedRemaining int) error {
	now := time.Now()
	filter := bson.M{
		"_id":              id,
		"remainingChances": expectedRemaining,
	}
	update := bson.M{
		"$inc": bson.M{"remainingChances": -1},
		"$set": bson.M{"lastUsedAt": now},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing token from a lost race.
		err := r.collection.FindOne(ctx, bson.M{"_id": id}).Err()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFound("token not found: " + id.Hex())
		}
		if err != nil {
			return err
		}
		return apperrors.ErrConflict
	}
	return nil
}

// IncrementRemaining adds one chance back as saga compensation. It is
// unconditional and leaves lastUsedAt untouched: a restored chance was
// never a use.
func (r *TokenRepository) IncrementRemaining(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$inc": bson.M{"remainingChances": 1}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("token not found: " + id.Hex())
	}
	return nil
}
