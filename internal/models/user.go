package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// User is a registered account. Realtime sessions are allowed to stay
// anonymous; a User row exists only for clients that went through the
// register/login flow.
type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Profile attributes, filled in by the complete-profile step.
	Age              int            `json:"age"`
	Gender           string         `json:"gender"`
	Location         string         `json:"location"`
	Bio              string         `json:"bio"`
	Interests        pq.StringArray `gorm:"type:text[]" json:"interests"`
	ProfileCompleted bool           `json:"profileCompleted"`

	// Moderation state.
	ReputationScore int   `json:"-"`
	IsBlocked       bool  `json:"-"`
	BlockEndTime    int64 `json:"-"`
	BlockLevel      int   `json:"-"`
	LastBanDate     int64 `json:"-"`
}

// BeforeCreate is a GORM hook that assigns a UUID if the ID is not set yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
