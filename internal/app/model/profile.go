package model

import "time"

// UserProfile carries the role used for access gating.
type UserProfile struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Role      string    `gorm:"type:varchar(20);default:'vendor'" json:"role"` // admin | vendor
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "profiles"
}
