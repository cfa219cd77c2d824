package services

import (
	"testing"

	"asha_connect_go/config"
	"asha_connect_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.AdminUser{}, &models.ContentEntry{}))
	return db
}

func TestSeedAdminUser(t *testing.T) {
	t.Run("Creates bootstrap superadmin", func(t *testing.T) {
		db := setupSeedTestDB(t)
		cfg := &config.Config{AdminEmail: "boot@test.com", AdminPassword: "bootstrap123", AdminName: "Bootstrap"}

		assert.NoError(t, SeedAdminUser(db, cfg))

		var admin models.AdminUser
		assert.NoError(t, db.Where("email = ?", "boot@test.com").First(&admin).Error)
		assert.Equal(t, models.RoleSuperAdmin, admin.Role)
		assert.True(t, VerifyPassword(admin.Password, "bootstrap123"))
	})

	t.Run("Skips when an admin already exists", func(t *testing.T) {
		db := setupSeedTestDB(t)
		db.Create(&models.AdminUser{Email: "existing@test.com", Password: "x", Name: "Existing", Role: models.RoleAdmin, IsActive: true})
		cfg := &config.Config{AdminEmail: "boot@test.com", AdminPassword: "bootstrap123"}

		assert.NoError(t, SeedAdminUser(db, cfg))

		var count int64
		db.Model(&models.AdminUser{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("No credentials configured is not an error", func(t *testing.T) {
		db := setupSeedTestDB(t)
		assert.NoError(t, SeedAdminUser(db, &config.Config{}))

		var count int64
		db.Model(&models.AdminUser{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}

func TestSeedDefaultContent(t *testing.T) {
	t.Run("Inserts defaults", func(t *testing.T) {
		db := setupSeedTestDB(t)
		assert.NoError(t, SeedDefaultContent(db))

		var count int64
		db.Model(&models.ContentEntry{}).Count(&count)
		assert.Equal(t, int64(len(defaultContent)), count)
	})

	t.Run("Never overwrites edited values", func(t *testing.T) {
		db := setupSeedTestDB(t)
		db.Create(&models.ContentEntry{Page: "home", Section: "hero", Key: "title", Value: "Edited by an admin", Type: models.ContentTypeText})

		assert.NoError(t, SeedDefaultContent(db))

		var entry models.ContentEntry
		db.Where("page = ? AND section = ? AND key = ?", "home", "hero", "title").First(&entry)
		assert.Equal(t, "Edited by an admin", entry.Value)
	})

	t.Run("Idempotent", func(t *testing.T) {
		db := setupSeedTestDB(t)
		assert.NoError(t, SeedDefaultContent(db))
		assert.NoError(t, SeedDefaultContent(db))

		var count int64
		db.Model(&models.ContentEntry{}).Count(&count)
		assert.Equal(t, int64(len(defaultContent)), count)
	})
}
