package services

import (
	"context"
	"sync"
	"time"

	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/apperrors"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory stand-in for the document store. A data
// mutex makes each repository call atomic, and a separate transaction
// mutex serializes WithTransaction bodies the way the store serializes
// conflicting transactions. Reads hand out deep copies so uncommitted
// mutation stays invisible, like real documents.
type memStore struct {
	dataMu sync.Mutex
	txnMu  sync.Mutex

	campaigns map[primitive.ObjectID]*models.Campaign
	outcomes  []*models.DrawOutcome
	tokens    map[primitive.ObjectID]*models.Token

	// forceTokenConflicts makes every token CAS lose, to exercise the
	// bounded retry path.
	forceTokenConflicts bool
}

func newMemStore() *memStore {
	return &memStore{
		campaigns: make(map[primitive.ObjectID]*models.Campaign),
		tokens:    make(map[primitive.ObjectID]*models.Token),
	}
}

// --- TxnRunner ---

func (m *memStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txnMu.Lock()
	defer m.txnMu.Unlock()
	return fn(ctx)
}

// --- CampaignRepository ---

func (m *memStore) Create(ctx context.Context, campaign *models.Campaign) error {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	if campaign.ID.IsZero() {
		campaign.ID = primitive.NewObjectID()
	}
	m.campaigns[campaign.ID] = copyCampaign(campaign)
	return nil
}

func (m *memStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, apperrors.NotFound("campaign not found: " + id.Hex())
	}
	return copyCampaign(c), nil
}

func (m *memStore) Update(ctx context.Context, campaign *models.Campaign) error {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	if _, ok := m.campaigns[campaign.ID]; !ok {
		return apperrors.NotFound("campaign not found: " + campaign.ID.Hex())
	}
	m.campaigns[campaign.ID] = copyCampaign(campaign)
	return nil
}

// campaignRepo/outcomeRepo/tokenRepo expose the one struct under the
// separate repository interfaces, mirroring the mongodb package.
type campaignRepo struct{ *memStore }
type outcomeRepo struct{ *memStore }
type tokenRepo struct{ *memStore }

// --- OutcomeRepository ---

func (m outcomeRepo) Create(ctx context.Context, outcome *models.DrawOutcome) error {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	if outcome.ID.IsZero() {
		outcome.ID = primitive.NewObjectID()
	}
	outcome.CreatedAt = time.Now()
	m.outcomes = append(m.outcomes, copyOutcome(outcome))
	return nil
}

func (m outcomeRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.DrawOutcome, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	for _, o := range m.outcomes {
		if o.ID == id {
			return copyOutcome(o), nil
		}
	}
	return nil, apperrors.NotFound("outcome not found: " + id.Hex())
}

func (m outcomeRepo) FindByCampaignAndParticipant(ctx context.Context, campaignID primitive.ObjectID, participantID string) ([]*models.DrawOutcome, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	matched := []*models.DrawOutcome{}
	for _, o := range m.outcomes {
		if o.CampaignID == campaignID && o.ParticipantID == participantID {
			matched = append(matched, copyOutcome(o))
		}
	}
	// Newest first.
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	return matched, nil
}

func (m outcomeRepo) Update(ctx context.Context, outcome *models.DrawOutcome) error {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	for i, o := range m.outcomes {
		if o.ID == outcome.ID {
			updated := copyOutcome(o)
			updated.CouponUsedCount = outcome.CouponUsedCount
			updated.CouponUsedAt = append([]time.Time(nil), outcome.CouponUsedAt...)
			if outcome.Shipping != nil {
				s := *outcome.Shipping
				updated.Shipping = &s
			}
			m.outcomes[i] = updated
			return nil
		}
	}
	return apperrors.NotFound("outcome not found: " + outcome.ID.Hex())
}

// --- TokenRepository ---

func (m tokenRepo) Create(ctx context.Context, token *models.Token) error {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	if token.ID.IsZero() {
		token.ID = primitive.NewObjectID()
	}
	token.CreatedAt = time.Now()
	m.tokens[token.ID] = copyToken(token)
	return nil
}

func (m tokenRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Token, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	t, ok := m.tokens[id]
	if !ok {
		return nil, apperrors.NotFound("token not found: " + id.Hex())
	}
	return copyToken(t), nil
}

func (m tokenRepo) DecrementRemaining(ctx context.Context, id primitive.ObjectID, expectedRemaining int) error {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	t, ok := m.tokens[id]
	if !ok {
		return apperrors.NotFound("token not found: " + id.Hex())
	}
	if m.forceTokenConflicts || t.RemainingChances != expectedRemaining {
		return apperrors.ErrConflict
	}
	t.RemainingChances--
	now := time.Now()
	t.LastUsedAt = &now
	return nil
}

func (m tokenRepo) IncrementRemaining(ctx context.Context, id primitive.ObjectID) error {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	t, ok := m.tokens[id]
	if !ok {
		return apperrors.NotFound("token not found: " + id.Hex())
	}
	t.RemainingChances++
	return nil
}

// --- copy helpers ---

func copyCampaign(c *models.Campaign) *models.Campaign {
	cp := *c
	cp.Prizes = make([]models.Prize, len(c.Prizes))
	for i := range c.Prizes {
		cp.Prizes[i] = c.Prizes[i].Snapshot()
	}
	if c.ConsolationPrize != nil {
		snap := c.ConsolationPrize.Snapshot()
		cp.ConsolationPrize = &snap
	}
	return &cp
}

func copyOutcome(o *models.DrawOutcome) *models.DrawOutcome {
	cp := *o
	cp.Prize = o.Prize.Snapshot()
	if o.CouponUsedAt != nil {
		cp.CouponUsedAt = append(cp.CouponUsedAt[:0:0], o.CouponUsedAt...)
	}
	if o.Shipping != nil {
		s := *o.Shipping
		cp.Shipping = &s
	}
	return &cp
}

func copyToken(t *models.Token) *models.Token {
	cp := *t
	if t.LastUsedAt != nil {
		at := *t.LastUsedAt
		cp.LastUsedAt = &at
	}
	return &cp
}
