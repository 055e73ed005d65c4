package services

import (
	"context"
	"testing"

	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/apperrors"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateCampaignSyncsCodeStock(t *testing.T) {
	store := newMemStore()
	svc := NewCampaignService(campaignRepo{store})
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Campaign{
		Name: "codes",
		Prizes: []models.Prize{
			{PrizeID: "voucher", Weight: 1, Type: models.PrizeTypeCode, Codes: []string{"AAA", "BBB", "CCC"}},
		},
		OverallWinProbability: 50,
		OutOfStockBehavior:    models.OutOfStockAllowLoss,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, created.Prizes[0].Stock, "CODE stock is derived from the pool at creation")
	assert.False(t, created.ID.IsZero())

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
}

func TestCreateCampaignRejectsInvalidCatalog(t *testing.T) {
	store := newMemStore()
	svc := NewCampaignService(campaignRepo{store})

	_, err := svc.Create(context.Background(), &models.Campaign{
		Name:                  "broken",
		Prizes:                []models.Prize{{PrizeID: "p", Weight: -1, Type: models.PrizeTypePhysical}},
		OverallWinProbability: 50,
		OutOfStockBehavior:    models.OutOfStockAllowLoss,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestGetUnknownCampaign(t *testing.T) {
	store := newMemStore()
	svc := NewCampaignService(campaignRepo{store})

	_, err := svc.Get(context.Background(), primitive.NewObjectID())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
