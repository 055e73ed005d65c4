package services

import (
	"context"

	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/models"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure CampaignServiceImpl implements CampaignService
var _ CampaignService = (*CampaignServiceImpl)(nil)

// CampaignServiceImpl validates catalogs at load time so the allocator
// never has to re-check the variant rules at draw time.
type CampaignServiceImpl struct {
	campaignRepo repositories.CampaignRepository
}

// NewCampaignService creates a new CampaignServiceImpl
func NewCampaignService(campaignRepo repositories.CampaignRepository) *CampaignServiceImpl {
	return &CampaignServiceImpl{campaignRepo: campaignRepo}
}

// Create validates and stores a new campaign catalog
func (s *CampaignServiceImpl) Create(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error) {
	// CODE prizes are issued with stock mirroring their pool.
	for i := range campaign.Prizes {
		p := &campaign.Prizes[i]
		if p.Type == models.PrizeTypeCode && !p.Unlimited {
			p.Stock = len(p.Codes)
		}
	}
	if campaign.ConsolationPrize != nil && campaign.ConsolationPrize.Type == models.PrizeTypeCode && !campaign.ConsolationPrize.Unlimited {
		campaign.ConsolationPrize.Stock = len(campaign.ConsolationPrize.Codes)
	}
	if err := campaign.Validate(); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, err
	}
	slog.Info("Campaign created", "campaignId", campaign.ID.Hex(), "name", campaign.Name, "prizes", len(campaign.Prizes))
	return campaign, nil
}

// Get returns a campaign catalog by id
func (s *CampaignServiceImpl) Get(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	return s.campaignRepo.FindByID(ctx, id)
}
