package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// FieldError describes a validation failure on a single form field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Envelope is the uniform JSON response shape for every API endpoint.
// Callers branch on Success only.
type Envelope struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func respondOK(c echo.Context, data interface{}, message string) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: false, Message: message})
}

func respondFieldErrors(c echo.Context, errs []FieldError) error {
	return c.JSON(http.StatusUnprocessableEntity, Envelope{
		Success: false,
		Message: "Please correct the highlighted fields",
		Errors:  errs,
	})
}
