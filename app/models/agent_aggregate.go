package models

import "time"

// AgentAggregate holds the derived rating statistics for one agent.
// AverageRating must stay the exact mean over all persisted reviews, so
// writers recompute it from a fresh read inside a transaction guarded by
// the Version column.
type AgentAggregate struct {
	AgentID       string    `gorm:"primaryKey;type:varchar(64)" json:"agent_id"`
	AverageRating float64   `gorm:"not null;default:0" json:"average_rating"`
	ReviewCount   int64     `gorm:"not null;default:0" json:"review_count"`
	Version       int64     `gorm:"not null;default:0" json:"-"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
