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

// CampaignRepository implements repositories.CampaignRepository
type CampaignRepository struct {
	collection *mongo.Collection
}

// NewCampaignRepository creates a new CampaignRepository
func NewCampaignRepository(db *mongo.Database) repositories.CampaignRepository {
	return &CampaignRepository{
		collection: db.Collection("campaigns"),
	}
}

// Create inserts a new campaign catalog document
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, campaign)
	if err != nil {
		return err
	}
	campaign.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a campaign by ID
func (r *CampaignRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&campaign)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("campaign not found: " + id.Hex())
		}
		return nil, err
	}
	return &campaign, nil
}

// Update replaces the whole catalog document. Callers mutate the
// catalog only inside a TxnRunner transaction.
func (r *CampaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	campaign.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": campaign.ID}, campaign)
	return err
}
