package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Review is one submitted rating. Rows are append-only; the derived
// per-agent aggregate lives in AgentAggregate.
type Review struct {
	ID         string    `gorm:"primaryKey;type:char(36)" json:"id"`
	AgentID    string    `gorm:"type:varchar(64);not null;index" json:"agent_id" validate:"required"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	AuthorName string    `gorm:"type:varchar(150)" json:"author_name"`
	Rating     int       `gorm:"not null" json:"rating" validate:"min=1,max=5"`
	Text       string    `gorm:"type:text" json:"text"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Review) Validate() error {
	v := validator.New()

	return v.Struct(r)
}
