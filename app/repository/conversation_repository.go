package repository

import (
	"github.com/vibhu-thankii/aether-ai/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// conversationRepository implements the ConversationRepository interface
type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new conversation repository instance
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// UpsertPointer refreshes the per-(user, agent) session pointer with the
// most recent message. One row per pair backs the history list.
func (r *conversationRepository) UpsertPointer(userID uint, agentID, agentName, lastMessage string) error {
	convo := &models.Conversation{
		UserID:      userID,
		AgentID:     agentID,
		AgentName:   agentName,
		LastMessage: lastMessage,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "agent_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"agent_name",
			"last_message",
			"updated_at",
		}),
	}).Create(convo).Error
}

// ListByUserID returns the user's history list, most recent first
func (r *conversationRepository) ListByUserID(userID uint) ([]models.Conversation, error) {
	var convos []models.Conversation
	err := r.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&convos).Error
	return convos, err
}

// AppendSummary appends one end-of-session summary to the profile history
func (r *conversationRepository) AppendSummary(summary *models.ConversationSummary) error {
	return r.db.Create(summary).Error
}

// ListRecentSummaries returns at most limit summaries for the (user, agent)
// pair, newest first. The bound lives in the query, so an unbounded history
// never inflates context assembly.
func (r *conversationRepository) ListRecentSummaries(userID uint, agentID string, limit int) ([]models.ConversationSummary, error) {
	var summaries []models.ConversationSummary
	q := r.db.Where("user_id = ? AND agent_id = ?", userID, agentID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&summaries).Error
	return summaries, err
}
