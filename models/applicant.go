package models

import (
	"time"
)

// Applicant is a volunteer application submitted through the join form
type Applicant struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	FullName   string `gorm:"not null" json:"full_name"`
	Phone      string `gorm:"not null" json:"phone"`
	Email      string `gorm:"not null" json:"email"`
	State      string `json:"state"`
	City       string `json:"city"`
	Motivation string `gorm:"type:text" json:"motivation"`

	Status string `gorm:"not null;default:new;index" json:"status"`

	// Optional resume upload
	FileName string `json:"file_name,omitempty"`
	FilePath string `json:"-"` // Not exposed in JSON for security
	FileSize int64  `json:"file_size,omitempty"`
}

// TableName specifies the table name for Applicant model
func (Applicant) TableName() string {
	return "applicants"
}
