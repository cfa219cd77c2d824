package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"asha_connect_go/models"
	"asha_connect_go/services"

	"github.com/stretchr/testify/assert"
)

func TestLoginHandler(t *testing.T) {
	t.Run("Valid credentials", func(t *testing.T) {
		database := setupTestDB(t)
		createTestAdmin(t, database, "admin@test.com", "pass123456789", models.RoleAdmin)

		body := `{"email":"admin@test.com","password":"pass123456789"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/admin/login", strings.NewReader(body))
		c.Request().Header.Set("Content-Type", "application/json")

		err := LoginHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["success"])
		assert.NotEmpty(t, resp["token"])
		assert.Equal(t, models.RoleAdmin, resp["role"])

		// The returned token must resolve to a live session
		session, err := services.ValidateSession(database, resp["token"].(string))
		assert.NoError(t, err)
		assert.Equal(t, "admin@test.com", session.AdminUser.Email)
	})

	t.Run("Wrong password", func(t *testing.T) {
		database := setupTestDB(t)
		createTestAdmin(t, database, "admin2@test.com", "pass123456789", models.RoleAdmin)

		body := `{"email":"admin2@test.com","password":"nope"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/admin/login", strings.NewReader(body))
		c.Request().Header.Set("Content-Type", "application/json")

		err := LoginHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp Envelope
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
	})

	t.Run("Deactivated account", func(t *testing.T) {
		database := setupTestDB(t)
		admin := createTestAdmin(t, database, "inactive@test.com", "pass123456789", models.RoleAdmin)
		database.Model(admin).Update("is_active", false)

		body := `{"email":"inactive@test.com","password":"pass123456789"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/admin/login", strings.NewReader(body))
		c.Request().Header.Set("Content-Type", "application/json")

		err := LoginHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Email is case insensitive", func(t *testing.T) {
		database := setupTestDB(t)
		createTestAdmin(t, database, "mixed@test.com", "pass123456789", models.RoleAdmin)

		body := `{"email":"MIXED@Test.Com","password":"pass123456789"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/admin/login", strings.NewReader(body))
		c.Request().Header.Set("Content-Type", "application/json")

		err := LoginHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestDashboardHandler(t *testing.T) {
	database := setupTestDB(t)
	database.Create(&models.Contact{Name: "Asha Rao", Email: "asha@test.com", Message: "Hello", Status: models.StatusNew})
	database.Create(&models.Donation{FullName: "Ravi Kumar", Email: "ravi@test.com", Amount: 500, Status: models.StatusNew})

	_, c, rec := setupEcho(http.MethodGet, "/api/admin/dashboard", nil)

	err := DashboardHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool                         `json:"success"`
		Data    map[string][]json.RawMessage `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data[models.TypeContacts], 1)
	assert.Len(t, resp.Data[models.TypeDonations], 1)
	assert.Contains(t, resp.Data, models.TypeHelpRequests)
	assert.Contains(t, resp.Data, models.TypeApplicants)
}

func TestUpdateStatusHandler(t *testing.T) {
	t.Run("Valid transition", func(t *testing.T) {
		database := setupTestDB(t)
		contact := models.Contact{Name: "Asha Rao", Email: "asha@test.com", Message: "Hello", Status: models.StatusNew}
		database.Create(&contact)

		body := `{"status":"reviewed"}`
		_, c, rec := setupEcho(http.MethodPatch, "/api/admin/contacts/1/status", strings.NewReader(body))
		c.Request().Header.Set("Content-Type", "application/json")
		c.SetParamNames("type", "id")
		c.SetParamValues(models.TypeContacts, "1")

		err := UpdateStatusHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated models.Contact
		database.First(&updated, contact.ID)
		assert.Equal(t, models.StatusReviewed, updated.Status)
	})

	t.Run("Unknown status rejected", func(t *testing.T) {
		database := setupTestDB(t)
		database.Create(&models.Contact{Name: "Asha Rao", Email: "asha@test.com", Message: "Hello", Status: models.StatusNew})

		body := `{"status":"archived"}`
		_, c, rec := setupEcho(http.MethodPatch, "/api/admin/contacts/1/status", strings.NewReader(body))
		c.Request().Header.Set("Content-Type", "application/json")
		c.SetParamNames("type", "id")
		c.SetParamValues(models.TypeContacts, "1")

		err := UpdateStatusHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unknown type is 404", func(t *testing.T) {
		setupTestDB(t)

		body := `{"status":"reviewed"}`
		_, c, rec := setupEcho(http.MethodPatch, "/api/admin/subscribers/1/status", strings.NewReader(body))
		c.Request().Header.Set("Content-Type", "application/json")
		c.SetParamNames("type", "id")
		c.SetParamValues("subscribers", "1")

		err := UpdateStatusHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Missing row is 404", func(t *testing.T) {
		setupTestDB(t)

		body := `{"status":"reviewed"}`
		_, c, rec := setupEcho(http.MethodPatch, "/api/admin/contacts/999/status", strings.NewReader(body))
		c.Request().Header.Set("Content-Type", "application/json")
		c.SetParamNames("type", "id")
		c.SetParamValues(models.TypeContacts, "999")

		err := UpdateStatusHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteSubmissionHandler(t *testing.T) {
	t.Run("Deletes row", func(t *testing.T) {
		database := setupTestDB(t)
		contact := models.Contact{Name: "Asha Rao", Email: "asha@test.com", Message: "Hello", Status: models.StatusNew}
		database.Create(&contact)

		_, c, rec := setupEcho(http.MethodDelete, "/api/admin/contacts/1", nil)
		c.SetParamNames("type", "id")
		c.SetParamValues(models.TypeContacts, "1")

		err := DeleteSubmissionHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var count int64
		database.Model(&models.Contact{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Missing row is 404", func(t *testing.T) {
		setupTestDB(t)

		_, c, rec := setupEcho(http.MethodDelete, "/api/admin/contacts/42", nil)
		c.SetParamNames("type", "id")
		c.SetParamValues(models.TypeContacts, "42")

		err := DeleteSubmissionHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCreateAdminHandler(t *testing.T) {
	t.Run("Creates admin", func(t *testing.T) {
		database := setupTestDB(t)

		body := `{"email":"new@test.com","password":"longenough","name":"New Admin","role":"admin"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/admin/admins", strings.NewReader(body))
		c.Request().Header.Set("Content-Type", "application/json")

		err := CreateAdminHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var created models.AdminUser
		assert.NoError(t, database.Where("email = ?", "new@test.com").First(&created).Error)
		assert.True(t, services.VerifyPassword(created.Password, "longenough"))
		assert.NotEqual(t, "longenough", created.Password)
	})

	t.Run("Duplicate email is a field error", func(t *testing.T) {
		database := setupTestDB(t)
		createTestAdmin(t, database, "dup@test.com", "pass123456789", models.RoleAdmin)

		body := `{"email":"dup@test.com","password":"longenough","name":"Dup"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/admin/admins", strings.NewReader(body))
		c.Request().Header.Set("Content-Type", "application/json")

		err := CreateAdminHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp Envelope
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "email", resp.Errors[0].Field)
	})

	t.Run("Short password rejected", func(t *testing.T) {
		setupTestDB(t)

		body := `{"email":"short@test.com","password":"tiny","name":"Short"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/admin/admins", strings.NewReader(body))
		c.Request().Header.Set("Content-Type", "application/json")

		err := CreateAdminHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestDeleteAdminHandler(t *testing.T) {
	t.Run("Removes account and sessions", func(t *testing.T) {
		database := setupTestDB(t)
		target := createTestAdmin(t, database, "target@test.com", "pass123456789", models.RoleAdmin)
		_, err := services.CreateSession(database, target.ID, "127.0.0.1", "test")
		assert.NoError(t, err)

		_, c, rec := setupEcho(http.MethodDelete, "/api/admin/admins/"+target.ID, nil)
		c.SetParamNames("id")
		c.SetParamValues(target.ID)

		err = DeleteAdminHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var sessions int64
		database.Model(&models.AdminSession{}).Where("admin_user_id = ?", target.ID).Count(&sessions)
		assert.Equal(t, int64(0), sessions)
	})

	t.Run("Self delete blocked", func(t *testing.T) {
		database := setupTestDB(t)
		admin := createTestAdmin(t, database, "self@test.com", "pass123456789", models.RoleSuperAdmin)

		_, c, rec := setupEcho(http.MethodDelete, "/api/admin/admins/"+admin.ID, nil)
		c.SetParamNames("id")
		c.SetParamValues(admin.ID)
		c.Set("admin", admin)

		err := DeleteAdminHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var count int64
		database.Model(&models.AdminUser{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})
}

func TestExportHandler(t *testing.T) {
	database := setupTestDB(t)
	database.Create(&models.Donation{FullName: "Ravi Kumar", Email: "ravi@test.com", Amount: 1000, Status: models.StatusNew})

	_, c, rec := setupEcho(http.MethodGet, "/api/admin/export", nil)

	err := ExportHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotZero(t, rec.Body.Len())
}
