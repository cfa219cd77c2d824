package models

import (
	"time"
)

// Contact is a general inquiry submitted through the contact form
type Contact struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	Name    string `gorm:"not null" json:"name"`
	Email   string `gorm:"not null" json:"email"`
	Phone   string `json:"phone"`
	Message string `gorm:"type:text;not null" json:"message"`

	Status string `gorm:"not null;default:new;index" json:"status"`
}

// TableName specifies the table name for Contact model
func (Contact) TableName() string {
	return "contacts"
}
