package models

import "time"

// ConversationSummary is one end-of-session summary appended to a user's
// profile history. History may grow without bound; readers only ever take
// the most recent few per (user, agent), so the index covers that query.
type ConversationSummary struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index:idx_summaries_user_agent,priority:1" json:"user_id"`
	AgentID     string    `gorm:"type:varchar(64);not null;index:idx_summaries_user_agent,priority:2" json:"agent_id"`
	SummaryText string    `gorm:"type:text;not null" json:"summary_text"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
