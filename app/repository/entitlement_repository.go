package repository

import (
	"errors"

	"github.com/vibhu-thankii/aether-ai/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// entitlementRepository implements the EntitlementRepository interface
type entitlementRepository struct {
	db *gorm.DB
}

// NewEntitlementRepository creates a new entitlement repository instance
func NewEntitlementRepository(db *gorm.DB) EntitlementRepository {
	return &entitlementRepository{db: db}
}

// SetPro marks the user's entitlement row as pro. The write is an upsert on
// user_id, so redelivered webhooks land on the same row with the same value.
func (r *entitlementRepository) SetPro(userID uint) error {
	ent := &models.Entitlement{UserID: userID, IsPro: true}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"is_pro": true}),
	}).Create(ent).Error
}

// AddAgentUnlock records a single-agent purchase. Duplicate grants hit the
// unique (user_id, agent_id) index and are ignored.
func (r *entitlementRepository) AddAgentUnlock(userID uint, agentID string) error {
	unlock := &models.AgentUnlock{UserID: userID, AgentID: agentID}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "agent_id"},
		},
		DoNothing: true,
	}).Create(unlock).Error
}

// GetByUserID returns the entitlement row, or a default free row when the
// user never received a grant.
func (r *entitlementRepository) GetByUserID(userID uint) (*models.Entitlement, error) {
	var ent models.Entitlement
	err := r.db.Where("user_id = ?", userID).First(&ent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.Entitlement{UserID: userID, IsPro: false}, nil
		}
		return nil, err
	}
	return &ent, nil
}

// ListUnlockedAgentIDs returns the agent ids the user purchased individually
func (r *entitlementRepository) ListUnlockedAgentIDs(userID uint) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.AgentUnlock{}).
		Where("user_id = ?", userID).
		Order("agent_id ASC").
		Pluck("agent_id", &ids).Error
	return ids, err
}
