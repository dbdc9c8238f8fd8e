package reviews

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibhu-thankii/aether-ai/app/models"
	"github.com/vibhu-thankii/aether-ai/app/repository"
	"gorm.io/gorm"
)

// memReviewRepo is an in-memory ReviewRepository with the same version
// semantics as the database implementation. loseRaces makes the next N
// aggregate writes report a lost race, to exercise the retry path.
type memReviewRepo struct {
	mu         sync.Mutex
	reviews    []models.Review
	aggregates map[string]models.AgentAggregate
	loseRaces  int
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{aggregates: make(map[string]models.AgentAggregate)}
}

func (m *memReviewRepo) ListByAgentID(agentID string, limit int) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Review
	for _, r := range m.reviews {
		if r.AgentID == agentID {
			out = append(out, r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memReviewRepo) GetAggregate(agentID string) (*models.AgentAggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	agg, ok := m.aggregates[agentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &agg, nil
}

func (m *memReviewRepo) ListAggregates() ([]models.AgentAggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AgentAggregate, 0, len(m.aggregates))
	for _, agg := range m.aggregates {
		out = append(out, agg)
	}
	return out, nil
}

func (m *memReviewRepo) Transact(fn func(tx repository.ReviewTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &memReviewTx{repo: m}
	if err := fn(tx); err != nil {
		return err
	}
	// Commit staged writes.
	m.reviews = append(m.reviews, tx.staged...)
	if tx.aggregate != nil {
		m.aggregates[tx.aggregate.AgentID] = *tx.aggregate
	}
	return nil
}

type memReviewTx struct {
	repo      *memReviewRepo
	staged    []models.Review
	aggregate *models.AgentAggregate
}

func (t *memReviewTx) GetAggregateForUpdate(agentID string) (*models.AgentAggregate, error) {
	agg, ok := t.repo.aggregates[agentID]
	if !ok {
		return &models.AgentAggregate{AgentID: agentID}, nil
	}
	return &agg, nil
}

func (t *memReviewTx) CreateReview(review *models.Review) error {
	t.staged = append(t.staged, *review)
	return nil
}

func (t *memReviewTx) WriteAggregate(agg *models.AgentAggregate, readVersion int64) (bool, error) {
	if t.repo.loseRaces > 0 {
		t.repo.loseRaces--
		return false, nil
	}
	current := t.repo.aggregates[agg.AgentID]
	if current.Version != readVersion {
		return false, nil
	}
	t.aggregate = agg
	return true, nil
}

func TestSubmitReviewExactMean(t *testing.T) {
	repo := newMemReviewRepo()
	agg := NewAggregator(repo)

	var last *models.AgentAggregate
	for _, rating := range []int{5, 3, 4} {
		var err error
		last, err = agg.SubmitReview(context.Background(), SubmitReviewInput{
			AgentID: "placeholder-1",
			UserID:  1,
			Rating:  rating,
		})
		require.NoError(t, err)
	}

	assert.Equal(t, int64(3), last.ReviewCount)
	assert.InDelta(t, 4.0, last.AverageRating, 1e-9)
	assert.Len(t, repo.reviews, 3)
}

func TestSubmitReviewRejectsInvalidRating(t *testing.T) {
	repo := newMemReviewRepo()
	agg := NewAggregator(repo)

	for _, rating := range []int{0, 6, -1, 100} {
		_, err := agg.SubmitReview(context.Background(), SubmitReviewInput{
			AgentID: "placeholder-1",
			UserID:  1,
			Rating:  rating,
		})
		assert.ErrorIs(t, err, ErrInvalidRating)
	}
	assert.Empty(t, repo.reviews)
	assert.Empty(t, repo.aggregates)
}

func TestSubmitReviewRequiresAgentAndUser(t *testing.T) {
	agg := NewAggregator(newMemReviewRepo())

	_, err := agg.SubmitReview(context.Background(), SubmitReviewInput{AgentID: "", UserID: 1, Rating: 5})
	assert.Error(t, err)
	_, err = agg.SubmitReview(context.Background(), SubmitReviewInput{AgentID: "placeholder-1", UserID: 0, Rating: 5})
	assert.Error(t, err)
}

func TestSubmitReviewRetriesLostRace(t *testing.T) {
	repo := newMemReviewRepo()
	repo.loseRaces = 2
	agg := NewAggregator(repo)

	result, err := agg.SubmitReview(context.Background(), SubmitReviewInput{
		AgentID: "placeholder-1",
		UserID:  1,
		Rating:  5,
	})
	require.NoError(t, err)

	// The two lost attempts rolled back their review inserts.
	assert.Len(t, repo.reviews, 1)
	assert.Equal(t, int64(1), result.ReviewCount)
	assert.InDelta(t, 5.0, result.AverageRating, 1e-9)
}

func TestSubmitReviewConflictAfterRetryBudget(t *testing.T) {
	repo := newMemReviewRepo()
	repo.loseRaces = maxSubmitAttempts
	agg := NewAggregator(repo)

	_, err := agg.SubmitReview(context.Background(), SubmitReviewInput{
		AgentID: "placeholder-1",
		UserID:  1,
		Rating:  5,
	})
	assert.ErrorIs(t, err, ErrAggregateConflict)
	assert.Empty(t, repo.reviews)
	assert.Empty(t, repo.aggregates)
}

func TestSubmitReviewConcurrent(t *testing.T) {
	repo := newMemReviewRepo()
	agg := NewAggregator(repo)

	ratings := []int{5, 3, 4, 1, 2, 5, 5, 4, 3, 2}
	var wg sync.WaitGroup
	for _, rating := range ratings {
		wg.Add(1)
		go func(rating int) {
			defer wg.Done()
			_, err := agg.SubmitReview(context.Background(), SubmitReviewInput{
				AgentID: "placeholder-1",
				UserID:  1,
				Rating:  rating,
			})
			assert.NoError(t, err)
		}(rating)
	}
	wg.Wait()

	sum := 0
	for _, r := range ratings {
		sum += r
	}
	final, err := agg.GetAggregate(context.Background(), "placeholder-1")
	require.NoError(t, err)
	assert.Equal(t, int64(len(ratings)), final.ReviewCount)
	assert.InDelta(t, float64(sum)/float64(len(ratings)), final.AverageRating, 1e-9)
	assert.Len(t, repo.reviews, len(ratings))
}

func TestGetAggregateDefaultsToZero(t *testing.T) {
	agg := NewAggregator(newMemReviewRepo())

	result, err := agg.GetAggregate(context.Background(), "never-reviewed")
	require.NoError(t, err)
	assert.Equal(t, "never-reviewed", result.AgentID)
	assert.Equal(t, int64(0), result.ReviewCount)
	assert.Equal(t, 0.0, result.AverageRating)
}

func TestSubmitReviewAssignsUUIDs(t *testing.T) {
	repo := newMemReviewRepo()
	agg := NewAggregator(repo)

	for i := 0; i < 3; i++ {
		_, err := agg.SubmitReview(context.Background(), SubmitReviewInput{
			AgentID: "placeholder-1",
			UserID:  1,
			Rating:  4,
		})
		require.NoError(t, err)
	}

	seen := make(map[string]bool)
	for _, r := range repo.reviews {
		assert.Len(t, r.ID, 36)
		assert.False(t, seen[r.ID])
		seen[r.ID] = true
	}
}
