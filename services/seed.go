package services

import (
	"fmt"
	"log"

	"asha_connect_go/config"
	"asha_connect_go/models"

	"gorm.io/gorm"
)

// SeedAdminUser creates the bootstrap admin account from environment
// configuration if no admin exists yet.
func SeedAdminUser(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.AdminUser{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Println("[WARNING] No admin users exist and ADMIN_EMAIL/ADMIN_PASSWORD are not set; admin login will be impossible")
		return nil
	}

	hash, err := HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := models.AdminUser{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: hash,
		Role:     models.RoleSuperAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	log.Printf("Bootstrap admin created: %s", admin.Email)
	return nil
}

// defaultContent is the initial editable copy for the public pages.
// Editors change these through the admin content endpoints.
var defaultContent = []models.ContentEntry{
	{Page: "home", Section: "hero", Key: "title", Value: "Hope begins with a helping hand", Type: models.ContentTypeText},
	{Page: "home", Section: "hero", Key: "subtitle", Value: "We connect volunteers, donors and people in need across the country.", Type: models.ContentTypeText},
	{Page: "home", Section: "impact", Key: "headline", Value: "What your support makes possible", Type: models.ContentTypeText},
	{Page: "about", Section: "main", Key: "title", Value: "About Asha Connect", Type: models.ContentTypeText},
	{Page: "about", Section: "main", Key: "body", Value: "<p>Asha Connect is a volunteer-run nonprofit.</p>", Type: models.ContentTypeHTML},
	{Page: "donate", Section: "hero", Key: "title", Value: "Every contribution counts", Type: models.ContentTypeText},
	{Page: "contact", Section: "main", Key: "email", Value: "hello@ashaconnect.org", Type: models.ContentTypeText},
}

// SeedDefaultContent inserts the default content entries that do not
// exist yet. Existing values are never overwritten.
func SeedDefaultContent(db *gorm.DB) error {
	for _, entry := range defaultContent {
		var existing models.ContentEntry
		err := db.Where("page = ? AND section = ? AND key = ?", entry.Page, entry.Section, entry.Key).
			First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("failed to check content entry: %w", err)
		}
		if err := db.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to seed content entry %s/%s/%s: %w", entry.Page, entry.Section, entry.Key, err)
		}
	}
	return nil
}
