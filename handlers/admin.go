package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"asha_connect_go/db"
	"asha_connect_go/middleware"
	"asha_connect_go/models"
	"asha_connect_go/services"

	"github.com/labstack/echo/v4"
)

// LoginHandler handles POST /api/admin/login
func LoginHandler(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	email := strings.TrimSpace(strings.ToLower(body.Email))
	if email == "" || body.Password == "" {
		return respondError(c, http.StatusBadRequest, "Email and password are required")
	}

	var admin models.AdminUser
	err := db.DB.Where("email = ?", email).First(&admin).Error
	if err != nil || !services.VerifyPassword(admin.Password, body.Password) {
		return respondError(c, http.StatusUnauthorized, "Invalid email or password")
	}

	if !admin.IsActive {
		return respondError(c, http.StatusUnauthorized, "Your account has been deactivated")
	}

	session, err := services.CreateSession(db.DB, admin.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		c.Logger().Errorf("Failed to create session: %v", err)
		return respondError(c, http.StatusInternalServerError, "Failed to log in")
	}

	now := time.Now()
	admin.LastLoginAt = &now
	db.DB.Save(&admin)

	// Token is top-level so the SPA can read it without unwrapping data
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   session.Token,
		"name":    admin.Name,
		"role":    admin.Role,
	})
}

// LogoutHandler handles POST /api/admin/logout
func LogoutHandler(c echo.Context) error {
	session, ok := c.Get(middleware.ContextKeySession).(*models.AdminSession)
	if ok && session != nil {
		if err := services.DeleteSession(db.DB, session.Token); err != nil {
			c.Logger().Errorf("Failed to delete session: %v", err)
		}
	}
	return respondOK(c, nil, "Logged out")
}

// DashboardHandler handles GET /api/admin/dashboard, returning every
// submission category at once, newest first.
func DashboardHandler(c echo.Context) error {
	var contacts []models.Contact
	var helpRequests []models.HelpRequest
	var applicants []models.Applicant
	var donations []models.Donation

	if err := db.DB.Order("created_at DESC").Find(&contacts).Error; err != nil {
		c.Logger().Errorf("Failed to load contacts: %v", err)
		return respondError(c, http.StatusInternalServerError, "Failed to load dashboard data")
	}
	if err := db.DB.Order("created_at DESC").Find(&helpRequests).Error; err != nil {
		c.Logger().Errorf("Failed to load help requests: %v", err)
		return respondError(c, http.StatusInternalServerError, "Failed to load dashboard data")
	}
	if err := db.DB.Order("created_at DESC").Find(&applicants).Error; err != nil {
		c.Logger().Errorf("Failed to load applicants: %v", err)
		return respondError(c, http.StatusInternalServerError, "Failed to load dashboard data")
	}
	if err := db.DB.Order("created_at DESC").Find(&donations).Error; err != nil {
		c.Logger().Errorf("Failed to load donations: %v", err)
		return respondError(c, http.StatusInternalServerError, "Failed to load dashboard data")
	}

	return respondOK(c, map[string]interface{}{
		models.TypeContacts:     contacts,
		models.TypeHelpRequests: helpRequests,
		models.TypeApplicants:   applicants,
		models.TypeDonations:    donations,
	}, "")
}

// UpdateStatusHandler handles PATCH /api/admin/:type/:id/status
func UpdateStatusHandler(c echo.Context) error {
	submissionType := c.Param("type")
	if !models.IsValidSubmissionType(submissionType) {
		return respondError(c, http.StatusNotFound, "Unknown submission type")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid id")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}
	if !models.IsValidStatus(body.Status) {
		return respondError(c, http.StatusBadRequest, "Unknown status value")
	}

	model := submissionModelFor(submissionType)
	result := db.DB.Model(model).Where("id = ?", id).Update("status", body.Status)
	if result.Error != nil {
		c.Logger().Errorf("Failed to update %s #%d status: %v", submissionType, id, result.Error)
		return respondError(c, http.StatusInternalServerError, "Failed to update status")
	}
	if result.RowsAffected == 0 {
		return respondError(c, http.StatusNotFound, "Entry not found")
	}

	return respondOK(c, nil, fmt.Sprintf("Status updated to %s", body.Status))
}

// DeleteSubmissionHandler handles DELETE /api/admin/:type/:id, removing
// any stored file along with the row.
func DeleteSubmissionHandler(c echo.Context) error {
	submissionType := c.Param("type")
	if !models.IsValidSubmissionType(submissionType) {
		return respondError(c, http.StatusNotFound, "Unknown submission type")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid id")
	}

	filePath, err := submissionFilePath(submissionType, uint(id))
	if err != nil {
		return respondError(c, http.StatusNotFound, "Entry not found")
	}

	result := db.DB.Where("id = ?", id).Delete(submissionModelFor(submissionType))
	if result.Error != nil {
		c.Logger().Errorf("Failed to delete %s #%d: %v", submissionType, id, result.Error)
		return respondError(c, http.StatusInternalServerError, "Failed to delete entry")
	}
	if result.RowsAffected == 0 {
		return respondError(c, http.StatusNotFound, "Entry not found")
	}

	if filePath != "" {
		if err := services.Storage.Delete(context.Background(), filePath); err != nil {
			c.Logger().Errorf("Failed to delete file for %s #%d: %v", submissionType, id, err)
		}
	}

	return respondOK(c, nil, fmt.Sprintf("Deleted %s #%d", submissionType, id))
}

// submissionModelFor returns a zero value of the model behind a type key.
// Callers must have validated the type first.
func submissionModelFor(submissionType string) interface{} {
	switch submissionType {
	case models.TypeContacts:
		return &models.Contact{}
	case models.TypeHelpRequests:
		return &models.HelpRequest{}
	case models.TypeApplicants:
		return &models.Applicant{}
	case models.TypeDonations:
		return &models.Donation{}
	default:
		return nil
	}
}

// submissionFilePath loads the stored file key for a row, "" when the
// category has no file column or none was uploaded.
func submissionFilePath(submissionType string, id uint) (string, error) {
	switch submissionType {
	case models.TypeHelpRequests:
		var row models.HelpRequest
		if err := db.DB.First(&row, id).Error; err != nil {
			return "", err
		}
		return row.FilePath, nil
	case models.TypeApplicants:
		var row models.Applicant
		if err := db.DB.First(&row, id).Error; err != nil {
			return "", err
		}
		return row.FilePath, nil
	default:
		// Contacts and donations carry no files; just confirm existence
		var count int64
		db.DB.Model(submissionModelFor(submissionType)).Where("id = ?", id).Count(&count)
		if count == 0 {
			return "", fmt.Errorf("entry not found")
		}
		return "", nil
	}
}

// ListAdminsHandler handles GET /api/admin/admins
func ListAdminsHandler(c echo.Context) error {
	var admins []models.AdminUser
	if err := db.DB.Order("created_at ASC").Find(&admins).Error; err != nil {
		c.Logger().Errorf("Failed to list admins: %v", err)
		return respondError(c, http.StatusInternalServerError, "Failed to list admins")
	}
	return respondOK(c, admins, "")
}

// CreateAdminHandler handles POST /api/admin/admins (superadmin only)
func CreateAdminHandler(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	email := strings.TrimSpace(strings.ToLower(body.Email))
	role := body.Role
	if role == "" {
		role = models.RoleAdmin
	}

	var errs []FieldError
	if email == "" || !validEmail(email) {
		errs = append(errs, FieldError{Field: "email", Message: "A valid email is required"})
	}
	if len(body.Password) < 8 {
		errs = append(errs, FieldError{Field: "password", Message: "Password must be at least 8 characters"})
	}
	if strings.TrimSpace(body.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "Name is required"})
	}
	if !models.IsValidRole(role) {
		errs = append(errs, FieldError{Field: "role", Message: "Unknown role"})
	}
	if len(errs) > 0 {
		return respondFieldErrors(c, errs)
	}

	hash, err := services.HashPassword(body.Password)
	if err != nil {
		c.Logger().Errorf("Failed to hash password: %v", err)
		return respondError(c, http.StatusInternalServerError, "Failed to create admin")
	}

	admin := models.AdminUser{
		Name:     strings.TrimSpace(body.Name),
		Email:    email,
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	if err := db.DB.Create(&admin).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return respondFieldErrors(c, []FieldError{{Field: "email", Message: "An admin with this email already exists"}})
		}
		c.Logger().Errorf("Failed to create admin: %v", err)
		return respondError(c, http.StatusInternalServerError, "Failed to create admin")
	}

	return respondOK(c, admin, "Admin created")
}

// DeleteAdminHandler handles DELETE /api/admin/admins/:id (superadmin only)
func DeleteAdminHandler(c echo.Context) error {
	id := c.Param("id")

	current := middleware.GetCurrentAdmin(c)
	if current != nil && current.ID == id {
		return respondError(c, http.StatusBadRequest, "You cannot delete your own account")
	}

	result := db.DB.Where("id = ?", id).Delete(&models.AdminUser{})
	if result.Error != nil {
		c.Logger().Errorf("Failed to delete admin %s: %v", id, result.Error)
		return respondError(c, http.StatusInternalServerError, "Failed to delete admin")
	}
	if result.RowsAffected == 0 {
		return respondError(c, http.StatusNotFound, "Admin not found")
	}

	// Invalidate any open sessions for the removed account
	db.DB.Where("admin_user_id = ?", id).Delete(&models.AdminSession{})

	return respondOK(c, nil, "Admin deleted")
}

// ExportHandler handles GET /api/admin/export, streaming an Excel
// workbook of all submissions.
func ExportHandler(c echo.Context) error {
	buf, err := services.GenerateDashboardWorkbook(db.DB)
	if err != nil {
		c.Logger().Errorf("Failed to generate export: %v", err)
		return respondError(c, http.StatusInternalServerError, "Failed to generate export")
	}

	filename := fmt.Sprintf("asha-connect-submissions-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// DonationReceiptHandler handles GET /api/admin/donations/:id/receipt,
// returning a PDF receipt rendered with headless Chrome.
func DonationReceiptHandler(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid id")
	}

	var donation models.Donation
	if err := db.DB.First(&donation, id).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Donation not found")
	}

	pdf, err := services.GenerateDonationReceipt(&donation)
	if err != nil {
		c.Logger().Errorf("Failed to generate receipt for donation #%d: %v", id, err)
		return respondError(c, http.StatusInternalServerError, "Failed to generate receipt")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="donation-receipt-%d.pdf"`, donation.ID))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
