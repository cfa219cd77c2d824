package models

import (
	"time"
)

// Content value types
const (
	ContentTypeText  = "text"
	ContentTypeHTML  = "html"
	ContentTypeImage = "image"
)

// ContentEntry is one editable piece of site copy, addressed by the
// (page, section, key) triple the public pages look values up by.
type ContentEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Page    string `gorm:"not null;index:idx_content_triple,unique" json:"page"`
	Section string `gorm:"not null;index:idx_content_triple,unique" json:"section"`
	Key     string `gorm:"not null;index:idx_content_triple,unique" json:"key"`
	Value   string `gorm:"type:text" json:"value"`
	Type    string `gorm:"not null;default:text" json:"type"` // text, html, image
}

// TableName specifies the table name for ContentEntry model
func (ContentEntry) TableName() string {
	return "content_entries"
}

// IsValidContentType checks if the content value type is valid
func IsValidContentType(t string) bool {
	return t == ContentTypeText || t == ContentTypeHTML || t == ContentTypeImage
}
