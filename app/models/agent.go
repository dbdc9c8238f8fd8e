package models

import "time"

const (
	AgentCategoryProductivity  = "productivity"
	AgentCategoryCompanionship = "companionship"
	AgentCategoryCreative      = "creative"
	AgentCategoryUtility       = "utility"
	AgentCategorySystem        = "system"
)

// Agent is one catalog entry. IDs come from the voice platform, so they are
// opaque strings rather than auto-increment keys.
type Agent struct {
	ID              string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name            string    `gorm:"type:varchar(150);not null" json:"name" validate:"required,max=150"`
	Description     string    `gorm:"type:varchar(255)" json:"description"`
	LongDescription string    `gorm:"type:text" json:"long_description"`
	Category        string    `gorm:"type:varchar(50);not null;index" json:"category"`
	IsPro           bool      `gorm:"default:false;index" json:"is_pro"`
	IsFeatured      bool      `gorm:"default:false" json:"is_featured"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
