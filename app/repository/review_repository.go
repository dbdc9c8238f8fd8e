package repository

import (
	"errors"

	"github.com/vibhu-thankii/aether-ai/app/models"
	"gorm.io/gorm"
)

// reviewRepository implements the ReviewRepository interface
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository instance
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// ListByAgentID returns the most recent reviews for an agent
func (r *reviewRepository) ListByAgentID(agentID string, limit int) ([]models.Review, error) {
	var reviews []models.Review
	q := r.db.Where("agent_id = ?", agentID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&reviews).Error
	return reviews, err
}

// GetAggregate returns the derived rating row for an agent; absence means
// no reviews yet and is reported as gorm.ErrRecordNotFound.
func (r *reviewRepository) GetAggregate(agentID string) (*models.AgentAggregate, error) {
	var agg models.AgentAggregate
	err := r.db.First(&agg, "agent_id = ?", agentID).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

// ListAggregates returns all aggregate rows for catalog rendering
func (r *reviewRepository) ListAggregates() ([]models.AgentAggregate, error) {
	var aggs []models.AgentAggregate
	err := r.db.Find(&aggs).Error
	return aggs, err
}

// Transact runs fn inside one database transaction
func (r *reviewRepository) Transact(fn func(tx ReviewTx) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&reviewTx{tx: tx})
	})
}

type reviewTx struct {
	tx *gorm.DB
}

// GetAggregateForUpdate reads the current aggregate inside the transaction.
// A missing row is returned as a zero aggregate at version 0.
func (t *reviewTx) GetAggregateForUpdate(agentID string) (*models.AgentAggregate, error) {
	var agg models.AgentAggregate
	err := t.tx.First(&agg, "agent_id = ?", agentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.AgentAggregate{AgentID: agentID}, nil
		}
		return nil, err
	}
	return &agg, nil
}

// CreateReview appends a review row
func (t *reviewTx) CreateReview(review *models.Review) error {
	return t.tx.Create(review).Error
}

// WriteAggregate persists the recomputed aggregate, guarded by the version
// the caller read. Version 0 means the row did not exist yet, so the write
// is an insert; a duplicate-key failure there is reported as a lost race.
func (t *reviewTx) WriteAggregate(agg *models.AgentAggregate, readVersion int64) (bool, error) {
	if readVersion == 0 {
		insert := t.tx.Exec(
			"INSERT IGNORE INTO agent_aggregates (agent_id, average_rating, review_count, version) VALUES (?, ?, ?, 1)",
			agg.AgentID, agg.AverageRating, agg.ReviewCount,
		)
		if insert.Error != nil {
			return false, insert.Error
		}
		return insert.RowsAffected > 0, nil
	}

	update := t.tx.Model(&models.AgentAggregate{}).
		Where("agent_id = ? AND version = ?", agg.AgentID, readVersion).
		Updates(map[string]interface{}{
			"average_rating": agg.AverageRating,
			"review_count":   agg.ReviewCount,
			"version":        readVersion + 1,
		})
	if update.Error != nil {
		return false, update.Error
	}
	return update.RowsAffected > 0, nil
}
