package repository

import (
	"github.com/vibhu-thankii/aether-ai/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	GetProfile(userID uint, displayName string) (*models.UserProfile, error)
	SaveProfile(profile *models.UserProfile) error
}

// AgentRepository defines the interface for catalog operations
type AgentRepository interface {
	GetByID(id string) (*models.Agent, error)
	List() ([]models.Agent, error)
	ListByCategory(category string) ([]models.Agent, error)
	Upsert(agent *models.Agent) error
}

// EntitlementRepository defines the durable operations behind the ledger.
// All grant writes must be idempotent at the storage layer (upsert / insert
// ignore), so redelivered payment events cannot duplicate state.
type EntitlementRepository interface {
	SetPro(userID uint) error
	AddAgentUnlock(userID uint, agentID string) error
	GetByUserID(userID uint) (*models.Entitlement, error)
	ListUnlockedAgentIDs(userID uint) ([]string, error)
}

// ReviewRepository defines review persistence plus the transactional
// read-modify-write used by the aggregator. GetAggregateForUpdate and
// WriteAggregate are only meaningful inside Transact.
type ReviewRepository interface {
	ListByAgentID(agentID string, limit int) ([]models.Review, error)
	GetAggregate(agentID string) (*models.AgentAggregate, error)
	ListAggregates() ([]models.AgentAggregate, error)
	Transact(fn func(tx ReviewTx) error) error
}

// ReviewTx is the capability set available inside one aggregator transaction.
type ReviewTx interface {
	GetAggregateForUpdate(agentID string) (*models.AgentAggregate, error)
	CreateReview(review *models.Review) error
	// WriteAggregate persists agg guarded by the version it was read at.
	// It reports false without error when another writer got there first.
	WriteAggregate(agg *models.AgentAggregate, readVersion int64) (bool, error)
}

// ConversationRepository defines session pointer and summary persistence
type ConversationRepository interface {
	UpsertPointer(userID uint, agentID, agentName, lastMessage string) error
	ListByUserID(userID uint) ([]models.Conversation, error)
	AppendSummary(summary *models.ConversationSummary) error
	ListRecentSummaries(userID uint, agentID string, limit int) ([]models.ConversationSummary, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Agent        AgentRepository
	Entitlement  EntitlementRepository
	Review       ReviewRepository
	Conversation ConversationRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Agent:        NewAgentRepository(db),
		Entitlement:  NewEntitlementRepository(db),
		Review:       NewReviewRepository(db),
		Conversation: NewConversationRepository(db),
	}
}
