package models

import (
	"time"
)

// Donation is a monetary contribution pledged through the donate form
type Donation struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	FullName string  `gorm:"not null" json:"full_name"`
	Mobile   string  `gorm:"not null" json:"mobile"`
	Email    string  `gorm:"not null" json:"email"`
	Amount   float64 `gorm:"not null" json:"amount"`
	// PAN number for tax receipts, optional
	PAN     string `json:"pan,omitempty"`
	Message string `gorm:"type:text" json:"message,omitempty"`

	Status string `gorm:"not null;default:new;index" json:"status"`
}

// TableName specifies the table name for Donation model
func (Donation) TableName() string {
	return "donations"
}
