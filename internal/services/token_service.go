package services

import (
	"context"
	"errors"
	"time"

	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/apperrors"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/models"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/repositories"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure TokenServiceImpl implements TokenService
var _ TokenService = (*TokenServiceImpl)(nil)

// TokenServiceImpl is the chance ledger. Consume is an optimistic
// read-verify-decrement loop; kiosk tokens are shared by a small,
// bursty set of scanners, so the retry is bounded rather than open.
type TokenServiceImpl struct {
	tokenRepo   repositories.TokenRepository
	maxAttempts int
	backoffBase time.Duration
}

// NewTokenService creates a new TokenServiceImpl. maxAttempts and
// backoffBase tune the consume retry loop (e.g. 5 attempts, 100ms).
func NewTokenService(tokenRepo repositories.TokenRepository, maxAttempts int, backoffBase time.Duration) *TokenServiceImpl {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if backoffBase <= 0 {
		backoffBase = 100 * time.Millisecond
	}
	return &TokenServiceImpl{
		tokenRepo:   tokenRepo,
		maxAttempts: maxAttempts,
		backoffBase: backoffBase,
	}
}

// Issue creates a token with remaining = total chances
func (s *TokenServiceImpl) Issue(ctx context.Context, expires time.Time, totalChances int) (*models.Token, error) {
	if totalChances <= 0 {
		return nil, apperrors.Validation("total chances must be positive")
	}
	if !expires.After(time.Now()) {
		return nil, apperrors.Validation("expiry must be in the future")
	}
	token := &models.Token{
		Expires:          expires,
		Chances:          totalChances,
		RemainingChances: totalChances,
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}
	slog.Info("Token issued", "tokenId", utils.MaskID(token.ID.Hex()), "chances", totalChances, "expires", expires)
	return token, nil
}

// Consume spends one chance. Each attempt re-reads the document so the
// expiry and remaining checks always run against the latest committed
// value; a lost compare-and-swap backs off and retries. Exhausting the
// bound surfaces CONFLICT_RETRY_EXHAUSTED with the token unchanged by
// this call.
func (s *TokenServiceImpl) Consume(ctx context.Context, id primitive.ObjectID) (int, error) {
	var remaining int
	err := utils.Retry(ctx, s.maxAttempts, s.backoffBase, func() error {
		token, err := s.tokenRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if token.Expired(time.Now()) {
			return apperrors.New(apperrors.KindExpiredToken, "token expired")
		}
		if token.RemainingChances <= 0 {
			return apperrors.New(apperrors.KindNoChancesLeft, "no chances left")
		}
		if err := s.tokenRepo.DecrementRemaining(ctx, id, token.RemainingChances); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return utils.Retryable(err)
			}
			return err
		}
		remaining = token.RemainingChances - 1
		return nil
	})
	if err != nil {
		if errors.Is(err, utils.ErrRetryExhausted) {
			slog.Warn("Consume retries exhausted", "tokenId", utils.MaskID(id.Hex()), "attempts", s.maxAttempts)
			return 0, apperrors.Wrap(apperrors.KindConflictRetryExhausted, "token contention too high", err)
		}
		return 0, err
	}
	slog.Info("Chance consumed", "tokenId", utils.MaskID(id.Hex()), "remaining", remaining)
	return remaining, nil
}

// Restore adds one chance back after a failed draw. Best-effort
// compensation: a failure here is the caller's to log, not retry, and
// a stale token expires on its own.
func (s *TokenServiceImpl) Restore(ctx context.Context, id primitive.ObjectID) error {
	if err := s.tokenRepo.IncrementRemaining(ctx, id); err != nil {
		return err
	}
	slog.Info("Chance restored", "tokenId", utils.MaskID(id.Hex()))
	return nil
}

// Get returns the token document. Displayed remaining counts may be
// stale while a compensation is pending; prefer the values returned by
// Consume/Restore.
func (s *TokenServiceImpl) Get(ctx context.Context, id primitive.ObjectID) (*models.Token, error) {
	return s.tokenRepo.FindByID(ctx, id)
}
