package models

import "time"

// Entitlement is the durable access-rights row for one user. Grants are
// monotone: once IsPro flips to true this subsystem never flips it back,
// and unlock rows are only ever added. Revocation, if any, is an external
// administrative action.
type Entitlement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	IsPro     bool      `gorm:"default:false" json:"is_pro"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AgentUnlock records a single-agent purchase. The (user, agent) pair is
// unique so re-applying the same grant is a no-op.
type AgentUnlock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:ux_agent_unlocks_user_agent,unique,priority:1" json:"user_id"`
	AgentID   string    `gorm:"type:varchar(64);not null;index:ux_agent_unlocks_user_agent,unique,priority:2" json:"agent_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
