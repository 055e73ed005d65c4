package services

import (
	"context"

	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/apperrors"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/models"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure DrawSessionServiceImpl implements DrawSessionService
var _ DrawSessionService = (*DrawSessionServiceImpl)(nil)

// DrawSessionResult surfaces the state of one kiosk draw attempt. The
// RemainingChances value comes from Consume/Restore directly, never
// from a separate read, so a pending compensation is never shown as a
// depleted token.
type DrawSessionResult struct {
	State            models.DrawSessionState `json:"state"`
	RemainingChances int                     `json:"remainingChances"`
	Outcome          *models.DrawOutcome     `json:"outcome,omitempty"`
}

// DrawSessionServiceImpl owns the consume→draw→restore saga and the
// session state machine. The allocator and the ledger stay stateless;
// all session state lives in the result handed to the caller.
type DrawSessionServiceImpl struct {
	tokens  TokenService
	lottery LotteryService
}

// NewDrawSessionService creates a new DrawSessionServiceImpl
func NewDrawSessionService(tokens TokenService, lottery LotteryService) *DrawSessionServiceImpl {
	return &DrawSessionServiceImpl{
		tokens:  tokens,
		lottery: lottery,
	}
}

// Play runs one kiosk draw: consume a chance from the token, invoke
// the allocator with the token's own participation history, and on any
// allocator failure restore the chance exactly once. The interval
// check is skipped because the chance ledger is the kiosk rate
// limiter.
func (s *DrawSessionServiceImpl) Play(ctx context.Context, campaignID, tokenID primitive.ObjectID) (*DrawSessionResult, error) {
	participantID := tokenID.Hex()

	// Gather duplicate-prevention history before consuming so a failed
	// query never needs compensation.
	history, err := s.lottery.History(ctx, campaignID, participantID)
	if err != nil {
		return &DrawSessionResult{State: models.SessionReady}, err
	}
	alreadyWon := WonPrizeIDs(history)

	remaining, err := s.tokens.Consume(ctx, tokenID)
	if err != nil {
		return &DrawSessionResult{State: consumeFailureState(err)}, err
	}
	// Consume succeeded: from here on, any draw failure owes the token
	// exactly one Restore.

	outcome, drawErr := s.lottery.Draw(ctx, campaignID, participantID, alreadyWon, nil, true)
	if drawErr == nil {
		return &DrawSessionResult{
			State:            models.SessionSettled,
			RemainingChances: remaining,
			Outcome:          outcome,
		}, nil
	}

	if restoreErr := s.tokens.Restore(ctx, tokenID); restoreErr != nil {
		// The ledger is now short one chance for this token. Log the
		// inconsistency and stop: the token expires on its own.
		slog.Error("Compensation failed after draw error, token left short one chance",
			"tokenId", utils.MaskID(tokenID.Hex()),
			"drawError", drawErr,
			"restoreError", restoreErr)
		return &DrawSessionResult{
			State:            models.SessionRestoring,
			RemainingChances: remaining,
		}, drawErr
	}

	return &DrawSessionResult{
		State:            models.SessionReady,
		RemainingChances: remaining + 1,
	}, drawErr
}

// consumeFailureState maps a terminal consume failure onto the session
// state machine.
func consumeFailureState(err error) models.DrawSessionState {
	switch apperrors.KindOf(err) {
	case apperrors.KindNoChancesLeft:
		return models.SessionDepleted
	case apperrors.KindExpiredToken:
		return models.SessionExpired
	default:
		return models.SessionReady
	}
}

// WonPrizeIDs extracts the distinct regular-prize ids a participant
// already won. Losses and consolation prizes never block a draw.
func WonPrizeIDs(history []*models.DrawOutcome) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, o := range history {
		if !o.IsWin() || o.IsConsolation || seen[o.PrizeID] {
			continue
		}
		seen[o.PrizeID] = true
		ids = append(ids, o.PrizeID)
	}
	return ids
}
