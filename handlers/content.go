package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"asha_connect_go/db"
	"asha_connect_go/models"
	"asha_connect_go/services"

	"github.com/labstack/echo/v4"
)

// contentValue is one editable value as exposed to the public pages
type contentValue struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// GetPageContentHandler handles GET /api/content/:page, returning the
// page's editable copy as {section: {key: {value, type}}}.
func GetPageContentHandler(c echo.Context) error {
	page := strings.TrimSpace(c.Param("page"))
	if page == "" {
		return respondError(c, http.StatusBadRequest, "Page is required")
	}

	var entries []models.ContentEntry
	if err := db.DB.Where("page = ?", page).Find(&entries).Error; err != nil {
		c.Logger().Errorf("Failed to load content for page %s: %v", page, err)
		return respondError(c, http.StatusInternalServerError, "Failed to load content")
	}

	tree := make(map[string]map[string]contentValue)
	for _, entry := range entries {
		section, ok := tree[entry.Section]
		if !ok {
			section = make(map[string]contentValue)
			tree[entry.Section] = section
		}
		section[entry.Key] = contentValue{Value: entry.Value, Type: entry.Type}
	}

	return respondOK(c, tree, "")
}

// UpdateContentHandler handles PUT /api/content/update/:page/:section/:key
func UpdateContentHandler(c echo.Context) error {
	page := strings.TrimSpace(c.Param("page"))
	section := strings.TrimSpace(c.Param("section"))
	key := strings.TrimSpace(c.Param("key"))
	if page == "" || section == "" || key == "" {
		return respondError(c, http.StatusBadRequest, "Page, section and key are required")
	}

	var body struct {
		Value string `json:"value"`
		Type  string `json:"type"`
	}
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	valueType := body.Type
	if valueType == "" {
		valueType = models.ContentTypeText
	}
	if !models.IsValidContentType(valueType) {
		return respondError(c, http.StatusBadRequest, "Unknown content type")
	}

	value := body.Value
	switch valueType {
	case models.ContentTypeHTML:
		value = services.SanitizeHTML(value)
	case models.ContentTypeText:
		value = services.SanitizeText(value)
	}

	var entry models.ContentEntry
	err := db.DB.Where("page = ? AND section = ? AND key = ?", page, section, key).
		First(&entry).Error
	if err == nil {
		entry.Value = value
		entry.Type = valueType
		err = db.DB.Save(&entry).Error
	} else {
		entry = models.ContentEntry{
			Page:    page,
			Section: section,
			Key:     key,
			Value:   value,
			Type:    valueType,
		}
		err = db.DB.Create(&entry).Error
	}
	if err != nil {
		c.Logger().Errorf("Failed to update content %s/%s/%s: %v", page, section, key, err)
		return respondError(c, http.StatusInternalServerError, "Failed to update content")
	}

	return respondOK(c, nil, "Content updated")
}

// UploadContentImageHandler handles POST /api/content/upload
func UploadContentImageHandler(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil || file == nil {
		return respondError(c, http.StatusBadRequest, "Image file is required")
	}

	if err := services.ValidateImageUpload(file); err != nil {
		return respondFieldErrors(c, []FieldError{{Field: "image", Message: err.Error()}})
	}

	storageKey := services.GenerateContentImageKey(file.Filename)
	result, err := services.Storage.Upload(context.Background(), file, storageKey)
	if err != nil {
		c.Logger().Errorf("Failed to store content image: %v", err)
		return respondError(c, http.StatusInternalServerError, "Failed to upload image")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"url":     result.URL,
	})
}
