package models

import (
	"time"

	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/apperrors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OutOfStockBehavior controls what happens to a draw when no prize and
// no consolation prize has stock left
type OutOfStockBehavior string

const (
	OutOfStockPreventParticipation OutOfStockBehavior = "PREVENT_PARTICIPATION"
	OutOfStockAllowLoss            OutOfStockBehavior = "ALLOW_LOSS"
)

// Campaign is the prize catalog document for one promotional lottery.
// The allocator mutates it only inside a store transaction.
type Campaign struct {
	ID                          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name                        string             `bson:"name" json:"name"`
	Prizes                      []Prize            `bson:"prizes" json:"prizes"`
	ConsolationPrize            *Prize             `bson:"consolationPrize,omitempty" json:"consolationPrize,omitempty"`
	OverallWinProbability       float64            `bson:"overallWinProbability" json:"overallWinProbability"` // percent, 0-100
	PreventDuplicatePrizes      bool               `bson:"preventDuplicatePrizes" json:"preventDuplicatePrizes"`
	OutOfStockBehavior          OutOfStockBehavior `bson:"outOfStockBehavior" json:"outOfStockBehavior"`
	ParticipationIntervalHours  int                `bson:"participationIntervalHours" json:"participationIntervalHours"`
	ParticipationIntervalMinutes int               `bson:"participationIntervalMinutes" json:"participationIntervalMinutes"`
	CreatedAt                   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt                   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Validate checks the catalog before it is stored or drawn against
func (c *Campaign) Validate() error {
	if c.Name == "" {
		return apperrors.Validation("campaign name is required")
	}
	if c.OverallWinProbability < 0 || c.OverallWinProbability > 100 {
		return apperrors.Validation("overall win probability must be between 0 and 100")
	}
	switch c.OutOfStockBehavior {
	case OutOfStockPreventParticipation, OutOfStockAllowLoss:
	default:
		return apperrors.Validation("unknown out-of-stock behavior: " + string(c.OutOfStockBehavior))
	}
	if c.ParticipationIntervalHours < 0 || c.ParticipationIntervalMinutes < 0 {
		return apperrors.Validation("participation interval must not be negative")
	}
	seen := make(map[string]bool, len(c.Prizes))
	for i := range c.Prizes {
		p := &c.Prizes[i]
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.PrizeID] {
			return apperrors.Validation("duplicate prize id: " + p.PrizeID)
		}
		seen[p.PrizeID] = true
	}
	if c.ConsolationPrize != nil {
		if err := c.ConsolationPrize.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ParticipationInterval returns the configured minimum wait between
// two draws by the same participant; zero means unrestricted.
func (c *Campaign) ParticipationInterval() time.Duration {
	return time.Duration(c.ParticipationIntervalHours)*time.Hour +
		time.Duration(c.ParticipationIntervalMinutes)*time.Minute
}

// HasConsolation reports whether a consolation prize is configured.
// A consolation prize without a rank label is treated as absent.
func (c *Campaign) HasConsolation() bool {
	return c.ConsolationPrize != nil && c.ConsolationPrize.Rank != "" && c.ConsolationPrize.Rank != "-"
}

// FindPrize returns the catalog prize with the given id, or nil
func (c *Campaign) FindPrize(prizeID string) *Prize {
	for i := range c.Prizes {
		if c.Prizes[i].PrizeID == prizeID {
			return &c.Prizes[i]
		}
	}
	return nil
}
