package repository

import (
	"github.com/vibhu-thankii/aether-ai/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// agentRepository implements the AgentRepository interface
type agentRepository struct {
	db *gorm.DB
}

// NewAgentRepository creates a new agent catalog repository instance
func NewAgentRepository(db *gorm.DB) AgentRepository {
	return &agentRepository{db: db}
}

// GetByID retrieves a catalog agent by its platform id
func (r *agentRepository) GetByID(id string) (*models.Agent, error) {
	var agent models.Agent
	err := r.db.First(&agent, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// List returns the full catalog, featured entries first
func (r *agentRepository) List() ([]models.Agent, error) {
	var agents []models.Agent
	err := r.db.Order("is_featured DESC, name ASC").Find(&agents).Error
	return agents, err
}

// ListByCategory returns catalog entries for one category
func (r *agentRepository) ListByCategory(category string) ([]models.Agent, error) {
	var agents []models.Agent
	err := r.db.Where("category = ?", category).Order("name ASC").Find(&agents).Error
	return agents, err
}

// Upsert creates or refreshes a catalog entry, keyed by platform id
func (r *agentRepository) Upsert(agent *models.Agent) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"description",
			"long_description",
			"category",
			"is_pro",
			"is_featured",
			"updated_at",
		}),
	}).Create(agent).Error
}
