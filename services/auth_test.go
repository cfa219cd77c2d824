package services

import (
	"testing"
	"time"

	"asha_connect_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.AdminUser{}, &models.AdminSession{})
	return db
}

func TestPasswordHashing(t *testing.T) {
	password := "SecretPass123!"

	hash, err := HashPassword(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	assert.True(t, VerifyPassword(hash, password))
	assert.False(t, VerifyPassword(hash, "WrongPass"))
}

func TestGenerateSessionToken(t *testing.T) {
	token1, err := GenerateSessionToken()
	assert.NoError(t, err)
	assert.Len(t, token1, 64)

	token2, err := GenerateSessionToken()
	assert.NoError(t, err)
	assert.NotEqual(t, token1, token2)
}

func TestSessionLifecycle(t *testing.T) {
	db := setupAuthTestDB()
	admin := &models.AdminUser{Email: "admin@test.com", Password: "x", Name: "Admin", Role: models.RoleAdmin, IsActive: true}
	assert.NoError(t, db.Create(admin).Error)

	// 1. Create
	session, err := CreateSession(db, admin.ID, "127.0.0.1", "TestAgent")
	assert.NoError(t, err)
	assert.NotNil(t, session)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, admin.ID, session.AdminUserID)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	// 2. Validate
	validated, err := ValidateSession(db, session.Token)
	assert.NoError(t, err)
	assert.Equal(t, admin.Email, validated.AdminUser.Email)

	// 3. Delete
	assert.NoError(t, DeleteSession(db, session.Token))
	_, err = ValidateSession(db, session.Token)
	assert.Error(t, err)
}

func TestValidateSessionExpired(t *testing.T) {
	db := setupAuthTestDB()
	admin := &models.AdminUser{Email: "admin@test.com", Password: "x", Name: "Admin", Role: models.RoleAdmin, IsActive: true}
	assert.NoError(t, db.Create(admin).Error)

	token, err := GenerateSessionToken()
	assert.NoError(t, err)
	expired := &models.AdminSession{
		AdminUserID: admin.ID,
		Token:       token,
		ExpiresAt:   time.Now().Add(-time.Hour),
	}
	assert.NoError(t, db.Create(expired).Error)

	_, err = ValidateSession(db, token)
	assert.Error(t, err)

	// An expired session is removed on validation
	var count int64
	db.Model(&models.AdminSession{}).Where("token = ?", token).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCleanupExpiredSessions(t *testing.T) {
	db := setupAuthTestDB()
	admin := &models.AdminUser{Email: "admin@test.com", Password: "x", Name: "Admin", Role: models.RoleAdmin, IsActive: true}
	assert.NoError(t, db.Create(admin).Error)

	live, err := CreateSession(db, admin.ID, "127.0.0.1", "TestAgent")
	assert.NoError(t, err)

	staleToken, _ := GenerateSessionToken()
	db.Create(&models.AdminSession{AdminUserID: admin.ID, Token: staleToken, ExpiresAt: time.Now().Add(-time.Minute)})

	assert.NoError(t, CleanupExpiredSessions(db))

	var remaining []models.AdminSession
	db.Find(&remaining)
	assert.Len(t, remaining, 1)
	assert.Equal(t, live.Token, remaining[0].Token)
}
