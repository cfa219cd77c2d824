package models

import (
	"time"
)

type AdminSession struct {
	ID        string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	AdminUserID string    `gorm:"type:uuid;not null;index" json:"admin_user_id"`
	Token       string    `gorm:"uniqueIndex;not null;type:varchar(128)" json:"-"`
	ExpiresAt   time.Time `gorm:"not null;index" json:"expires_at"`
	IPAddress   string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent   string    `gorm:"type:text" json:"user_agent"`

	// Relationships
	AdminUser AdminUser `gorm:"foreignKey:AdminUserID" json:"-"`
}

// TableName specifies the table name for AdminSession model
func (AdminSession) TableName() string {
	return "admin_sessions"
}

// IsExpired checks if the session has expired
func (s *AdminSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
