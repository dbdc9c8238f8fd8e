package models

import "time"

// Conversation is the lightweight session pointer backing the history list.
// Session transcripts themselves are never persisted; only the most recent
// message survives here, regardless of the caller's tier.
type Conversation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index:ux_conversations_user_agent,unique,priority:1" json:"user_id"`
	AgentID     string    `gorm:"type:varchar(64);not null;index:ux_conversations_user_agent,unique,priority:2" json:"agent_id"`
	AgentName   string    `gorm:"type:varchar(150)" json:"agent_name"`
	LastMessage string    `gorm:"type:text" json:"last_message"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;index" json:"updated_at"`
}
