package session

import "time"

// Session is one row of the sessions table; profile is the key.
type Session struct {
	Profile   string     `gorm:"column:profile;primaryKey;size:64"`
	Email     string     `gorm:"column:email;size:255;not null;default:''"`
	Token     string     `gorm:"column:token;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Session) TableName() string {
	return "sessions"
}
