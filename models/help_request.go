package models

import (
	"time"
)

// Emergency levels for help requests
const (
	EmergencyLow      = "low"
	EmergencyModerate = "moderate"
	EmergencyCritical = "critical"
)

// HelpRequest is an assistance request submitted through the help form
type HelpRequest struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	FullName  string `gorm:"not null" json:"full_name"`
	Phone     string `gorm:"not null" json:"phone"`
	Emergency string `gorm:"not null;default:low" json:"emergency"`
	// Comma-separated list of requested help categories (food, shelter, ...)
	HelpTypes   string `gorm:"type:text" json:"help_types"`
	Description string `gorm:"type:text" json:"description"`

	Status string `gorm:"not null;default:new;index" json:"status"`

	// Optional supporting document
	FileName string `json:"file_name,omitempty"`
	FilePath string `json:"-"` // Not exposed in JSON for security
	FileSize int64  `json:"file_size,omitempty"`
}

// TableName specifies the table name for HelpRequest model
func (HelpRequest) TableName() string {
	return "help_requests"
}

// IsValidEmergency checks if the emergency level is valid
func IsValidEmergency(level string) bool {
	validLevels := []string{
		EmergencyLow,
		EmergencyModerate,
		EmergencyCritical,
	}
	for _, l := range validLevels {
		if l == level {
			return true
		}
	}
	return false
}
