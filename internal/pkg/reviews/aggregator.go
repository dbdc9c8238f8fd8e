package reviews

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/vibhu-thankii/aether-ai/app/models"
	"github.com/vibhu-thankii/aether-ai/app/repository"
	"gorm.io/gorm"
)

var (
	// ErrInvalidRating marks ratings outside {1..5}; the aggregate is
	// never touched for these.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrAggregateConflict means the retry budget ran out under write
	// contention. It is transient: callers may resubmit the whole review.
	ErrAggregateConflict = errors.New("aggregate update conflict, please retry")
)

// errLostRace aborts one transaction attempt after a concurrent writer
// bumped the aggregate version between our read and write.
var errLostRace = errors.New("aggregate version changed")

const maxSubmitAttempts = 5

// SubmitReviewInput is one rating submission at session end.
type SubmitReviewInput struct {
	AgentID    string
	UserID     uint
	AuthorName string
	Rating     int
	Text       string
}

// Aggregator appends reviews and keeps each agent's aggregate equal to the
// exact mean over all persisted rows. Review insert and aggregate write
// happen in one transaction; racing writers are serialized by recomputing
// from a fresh read and retrying.
type Aggregator struct {
	repo repository.ReviewRepository
}

// NewAggregator creates an aggregator from an injected repository.
func NewAggregator(repo repository.ReviewRepository) *Aggregator {
	return &Aggregator{repo: repo}
}

// NewAggregatorFromDB creates an aggregator from a GORM DB handle.
func NewAggregatorFromDB(db *gorm.DB) *Aggregator {
	return NewAggregator(repository.NewReviewRepository(db))
}

// SubmitReview records one review and transactionally recomputes the
// agent's aggregate. Under contention the unit retries from a fresh read
// up to maxSubmitAttempts before reporting ErrAggregateConflict.
func (a *Aggregator) SubmitReview(ctx context.Context, in SubmitReviewInput) (*models.AgentAggregate, error) {
	_ = ctx
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if strings.TrimSpace(in.AgentID) == "" || in.UserID == 0 {
		return nil, errors.New("agent_id and user_id are required")
	}

	for attempt := 0; attempt < maxSubmitAttempts; attempt++ {
		var result *models.AgentAggregate
		err := a.repo.Transact(func(tx repository.ReviewTx) error {
			agg, err := tx.GetAggregateForUpdate(in.AgentID)
			if err != nil {
				return err
			}
			readVersion := agg.Version

			newCount := agg.ReviewCount + 1
			newAverage := (agg.AverageRating*float64(agg.ReviewCount) + float64(in.Rating)) / float64(newCount)

			review := &models.Review{
				ID:         uuid.NewString(),
				AgentID:    in.AgentID,
				UserID:     in.UserID,
				AuthorName: strings.TrimSpace(in.AuthorName),
				Rating:     in.Rating,
				Text:       strings.TrimSpace(in.Text),
			}
			if err := tx.CreateReview(review); err != nil {
				return err
			}

			updated := &models.AgentAggregate{
				AgentID:       in.AgentID,
				AverageRating: newAverage,
				ReviewCount:   newCount,
				Version:       readVersion + 1,
			}
			ok, err := tx.WriteAggregate(updated, readVersion)
			if err != nil {
				return err
			}
			if !ok {
				// Rolls back the review insert too; the whole unit
				// reruns against the fresh aggregate.
				return errLostRace
			}
			result = updated
			return nil
		})
		if err == nil {
			return result, nil
		}
		if errors.Is(err, errLostRace) {
			continue
		}
		return nil, err
	}

	return nil, ErrAggregateConflict
}

// GetAggregate returns the current aggregate, or a zero aggregate when the
// agent has no reviews yet.
func (a *Aggregator) GetAggregate(ctx context.Context, agentID string) (*models.AgentAggregate, error) {
	_ = ctx
	agg, err := a.repo.GetAggregate(agentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.AgentAggregate{AgentID: agentID}, nil
		}
		return nil, err
	}
	return agg, nil
}
