package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/apperrors"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/models"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/repositories"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure LotteryServiceImpl implements LotteryService
var _ LotteryService = (*LotteryServiceImpl)(nil)

// LotteryServiceImpl is the stateless allocator. All catalog and
// ledger mutation happens through the store's transaction primitive;
// there is no application-level lock.
type LotteryServiceImpl struct {
	campaignRepo repositories.CampaignRepository
	outcomeRepo  repositories.OutcomeRepository
	txn          repositories.TxnRunner
}

// NewLotteryService creates a new LotteryServiceImpl
func NewLotteryService(
	campaignRepo repositories.CampaignRepository,
	outcomeRepo repositories.OutcomeRepository,
	txn repositories.TxnRunner,
) *LotteryServiceImpl {
	return &LotteryServiceImpl{
		campaignRepo: campaignRepo,
		outcomeRepo:  outcomeRepo,
		txn:          txn,
	}
}

// Draw executes one weighted, stock-aware draw as a single atomic
// transaction against the campaign document and appends the outcome
// record in the same transaction.
func (s *LotteryServiceImpl) Draw(ctx context.Context, campaignID primitive.ObjectID, participantID string, alreadyWonPrizeIDs []string, lastParticipation *time.Time, skipIntervalCheck bool) (*models.DrawOutcome, error) {
	// The interval check queries history supplied by the caller, so it
	// runs before the single-document transaction.
	if !skipIntervalCheck && lastParticipation != nil {
		campaign, err := s.campaignRepo.FindByID(ctx, campaignID)
		if err != nil {
			return nil, err
		}
		interval := campaign.ParticipationInterval()
		if interval > 0 {
			next := lastParticipation.Add(interval)
			if wait := time.Until(next); wait > 0 {
				slog.Info("Draw rate limited", "campaignId", campaignID.Hex(), "participant", utils.MaskID(participantID), "wait", wait)
				return nil, apperrors.RateLimited(wait)
			}
		}
	}

	var outcome *models.DrawOutcome
	err := s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		campaign, err := s.campaignRepo.FindByID(ctx, campaignID)
		if err != nil {
			return err
		}
		if err := campaign.Validate(); err != nil {
			return err
		}

		now := time.Now()
		if !catalogHasStock(campaign, now) && campaign.OutOfStockBehavior == models.OutOfStockPreventParticipation {
			return apperrors.New(apperrors.KindOutOfStock, "no prize has stock left")
		}

		var won *models.Prize
		isConsolation := false
		wonCode := ""

		// The overall coin decides only whether any regular prize may
		// be won this draw.
		if rand.Float64()*100 < campaign.OverallWinProbability {
			eligible := eligiblePrizes(campaign, alreadyWonPrizeIDs, now)
			won = pickWeighted(eligible)
		}

		if won != nil && won.Type == models.PrizeTypeCode {
			code, ok := won.PopCode()
			if !ok {
				// Empty pool despite positive stock: re-sync the
				// counter and treat the draw as a non-win.
				slog.Warn("Code pool empty on selected prize, falling through",
					"campaignId", campaignID.Hex(), "prizeId", won.PrizeID)
				won = nil
			} else {
				wonCode = code
			}
		}

		if won == nil && campaign.HasConsolation() && campaign.ConsolationPrize.HasStock() {
			c := campaign.ConsolationPrize
			if c.Type == models.PrizeTypeCode {
				if code, ok := c.PopCode(); ok {
					won = c
					wonCode = code
					isConsolation = true
				} else {
					slog.Warn("Consolation code pool empty, recording loss", "campaignId", campaignID.Hex())
				}
			} else {
				won = c
				isConsolation = true
			}
		}

		if won != nil {
			won.Wins++
			if !won.Unlimited && won.Type != models.PrizeTypeCode {
				won.Stock--
			}
			outcome = &models.DrawOutcome{
				CampaignID:    campaignID,
				ParticipantID: participantID,
				PrizeID:       won.PrizeID,
				Prize:         won.Snapshot(),
				IsConsolation: isConsolation,
				WonCode:       wonCode,
			}
		} else {
			outcome = &models.DrawOutcome{
				CampaignID:    campaignID,
				ParticipantID: participantID,
				PrizeID:       models.LossPrizeID,
				Prize:         models.LossPrize(),
			}
		}

		if err := s.campaignRepo.Update(ctx, campaign); err != nil {
			return fmt.Errorf("failed to write catalog: %w", err)
		}
		if err := s.outcomeRepo.Create(ctx, outcome); err != nil {
			return fmt.Errorf("failed to append outcome: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Draw settled",
		"campaignId", campaignID.Hex(),
		"participant", utils.MaskID(participantID),
		"prizeId", outcome.PrizeID,
		"consolation", outcome.IsConsolation)
	return outcome, nil
}

// History returns the participation ledger for one participant,
// newest first.
func (s *LotteryServiceImpl) History(ctx context.Context, campaignID primitive.ObjectID, participantID string) ([]*models.DrawOutcome, error) {
	return s.outcomeRepo.FindByCampaignAndParticipant(ctx, campaignID, participantID)
}

// UseCoupon records one use of a won coupon. Stock is untouched: the
// coupon was already allocated at draw time.
func (s *LotteryServiceImpl) UseCoupon(ctx context.Context, outcomeID primitive.ObjectID) (*models.DrawOutcome, error) {
	outcome, err := s.outcomeRepo.FindByID(ctx, outcomeID)
	if err != nil {
		return nil, err
	}
	if !outcome.IsWin() || outcome.Prize.Type != models.PrizeTypeCoupon {
		return nil, apperrors.Validation("outcome is not a won coupon")
	}
	if outcome.Prize.CouponLimit > 0 && outcome.CouponUsedCount >= outcome.Prize.CouponLimit {
		return nil, apperrors.Validation("coupon use limit reached")
	}
	outcome.CouponUsedCount++
	outcome.CouponUsedAt = append(outcome.CouponUsedAt, time.Now())
	if err := s.outcomeRepo.Update(ctx, outcome); err != nil {
		return nil, fmt.Errorf("failed to record coupon use: %w", err)
	}
	return outcome, nil
}

// UpdateShipping captures the delivery address for a physical win
func (s *LotteryServiceImpl) UpdateShipping(ctx context.Context, outcomeID primitive.ObjectID, shipping models.ShippingInfo) (*models.DrawOutcome, error) {
	outcome, err := s.outcomeRepo.FindByID(ctx, outcomeID)
	if err != nil {
		return nil, err
	}
	if !outcome.IsWin() || outcome.Prize.Type != models.PrizeTypePhysical {
		return nil, apperrors.Validation("outcome is not a won physical prize")
	}
	shipping.UpdatedAt = time.Now()
	outcome.Shipping = &shipping
	if err := s.outcomeRepo.Update(ctx, outcome); err != nil {
		return nil, fmt.Errorf("failed to record shipping info: %w", err)
	}
	return outcome, nil
}

// --- Helpers for draw execution ---

// catalogHasStock reports whether any regular or consolation prize can
// still be won at t.
func catalogHasStock(c *models.Campaign, t time.Time) bool {
	for i := range c.Prizes {
		if c.Prizes[i].HasStock() && c.Prizes[i].ValidAt(t) {
			return true
		}
	}
	return c.HasConsolation() && c.ConsolationPrize.HasStock()
}

// eligiblePrizes builds the set the weighted pick runs over: prizes
// with stock, inside their validity window, minus already-won ids when
// duplicate prevention is on. Catalog order is preserved.
func eligiblePrizes(c *models.Campaign, alreadyWon []string, t time.Time) []*models.Prize {
	wonSet := make(map[string]bool, len(alreadyWon))
	if c.PreventDuplicatePrizes {
		for _, id := range alreadyWon {
			wonSet[id] = true
		}
	}
	var eligible []*models.Prize
	for i := range c.Prizes {
		p := &c.Prizes[i]
		if !p.HasStock() || !p.ValidAt(t) {
			continue
		}
		if wonSet[p.PrizeID] {
			continue
		}
		eligible = append(eligible, p)
	}
	return eligible
}

// pickWeighted draws a uniform point in [0, totalWeight) and walks the
// set in catalog order accumulating weights; the first prize whose
// cumulative weight exceeds the point wins. Ties go to catalog order,
// never re-rolled.
func pickWeighted(prizes []*models.Prize) *models.Prize {
	total := 0.0
	for _, p := range prizes {
		total += p.Weight
	}
	if total <= 0 {
		return nil
	}
	point := rand.Float64() * total
	cumulative := 0.0
	for _, p := range prizes {
		cumulative += p.Weight
		if point < cumulative {
			return p
		}
	}
	// Floating point edge: point landed on the total. Last eligible
	// prize takes it.
	return prizes[len(prizes)-1]
}
