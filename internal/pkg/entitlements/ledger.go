package entitlements

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vibhu-thankii/aether-ai/app/repository"
	"gorm.io/gorm"
)

// ErrStorageUnavailable marks transient storage failure. The webhook path
// maps it to an unacknowledged delivery so the gateway retries; that retry
// is the only recovery mechanism for grants.
var ErrStorageUnavailable = errors.New("entitlement storage unavailable")

// Ledger owns all durable entitlement mutation. Grants are monotone union
// writes, so applying the same grant twice yields the same state as once.
type Ledger struct {
	repo repository.EntitlementRepository
}

// NewLedger creates a ledger from an injected repository.
func NewLedger(repo repository.EntitlementRepository) *Ledger {
	return &Ledger{repo: repo}
}

// NewLedgerFromDB creates a ledger from a GORM DB handle.
func NewLedgerFromDB(db *gorm.DB) *Ledger {
	return NewLedger(repository.NewEntitlementRepository(db))
}

// Snapshot is the read model handed to tier policies and the API.
type Snapshot struct {
	UserID           uint     `json:"user_id"`
	IsPro            bool     `json:"is_pro"`
	UnlockedAgentIDs []string `json:"unlocked_agent_ids"`
}

// GrantPro marks the user as a pro subscriber.
func (l *Ledger) GrantPro(ctx context.Context, userID uint) error {
	_ = ctx
	if userID == 0 {
		return errors.New("user_id is required")
	}
	if err := l.repo.SetPro(userID); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// GrantAgent unlocks a single agent for the user.
func (l *Ledger) GrantAgent(ctx context.Context, userID uint, agentID string) error {
	_ = ctx
	if userID == 0 || strings.TrimSpace(agentID) == "" {
		return errors.New("user_id and agent_id are required")
	}
	if err := l.repo.AddAgentUnlock(userID, strings.TrimSpace(agentID)); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// GetEntitlement returns the current snapshot for a user. Users without any
// grant read as free with no unlocks.
func (l *Ledger) GetEntitlement(ctx context.Context, userID uint) (*Snapshot, error) {
	_ = ctx
	if userID == 0 {
		return nil, errors.New("user_id is required")
	}
	ent, err := l.repo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	unlocked, err := l.repo.ListUnlockedAgentIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if unlocked == nil {
		unlocked = []string{}
	}
	return &Snapshot{
		UserID:           userID,
		IsPro:            ent.IsPro,
		UnlockedAgentIDs: unlocked,
	}, nil
}
