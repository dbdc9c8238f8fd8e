package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// UserProfile stores the personalization data handed to the voice transport
// when a session starts: display name plus free-text preferences.
type UserProfile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex" json:"user_id"`
	DisplayName string    `gorm:"type:varchar(150)" json:"display_name"`
	Preferences string    `gorm:"type:text" json:"preferences"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// PreferenceList splits the stored preferences into one entry per line.
func (p *UserProfile) PreferenceList() []string {
	lines := strings.Split(p.Preferences, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// GetOrCreateUserProfile returns existing profile data or creates defaults.
func GetOrCreateUserProfile(db *gorm.DB, userID uint, displayName string) (*UserProfile, error) {
	var p UserProfile
	if err := db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			name := strings.TrimSpace(displayName)
			if name == "" {
				name = "Friend"
			}
			p = UserProfile{UserID: userID, DisplayName: name}
			if err := db.Create(&p).Error; err != nil {
				return nil, err
			}
			return &p, nil
		}
		return nil, err
	}
	return &p, nil
}
