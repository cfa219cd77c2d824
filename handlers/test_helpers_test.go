package handlers

import (
	"io"
	"net/http/httptest"
	"testing"

	"asha_connect_go/config"
	"asha_connect_go/db"
	"asha_connect_go/models"
	"asha_connect_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.Exec("PRAGMA journal_mode=WAL;").Error
	assert.NoError(t, err)

	if services.Storage == nil {
		services.Storage = services.NewLocalStorage("tmp/test_uploads")
	}

	err = testDB.AutoMigrate(
		&models.AdminUser{},
		&models.AdminSession{},
		&models.Contact{},
		&models.HelpRequest{},
		&models.Applicant{},
		&models.Donation{},
		&models.ContentEntry{},
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:   "test",
		EmailTestMode: true,
	})

	return e, c, rec
}

func createTestAdmin(t *testing.T, database *gorm.DB, email, password, role string) *models.AdminUser {
	hashed, err := services.HashPassword(password)
	assert.NoError(t, err)
	admin := &models.AdminUser{
		Email:    email,
		Password: hashed,
		Name:     "Test " + email,
		Role:     role,
		IsActive: true,
	}
	assert.NoError(t, database.Create(admin).Error)
	return admin
}
