package middleware

import (
	"net/http"
	"strings"

	"asha_connect_go/db"
	"asha_connect_go/models"
	"asha_connect_go/services"

	"github.com/labstack/echo/v4"
)

const (
	// ContextKeyAdmin is the context key for the authenticated admin user
	ContextKeyAdmin = "admin"
	// ContextKeySession is the context key for the session
	ContextKeySession = "session"
)

type authError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RequireAuth is middleware that requires a valid bearer session token
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, authError{Message: "Authentication required"})
			}

			session, err := services.ValidateSession(db.DB, token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, authError{Message: "Invalid or expired session"})
			}

			if !session.AdminUser.IsActive {
				return c.JSON(http.StatusUnauthorized, authError{Message: "Account is deactivated"})
			}

			c.Set(ContextKeyAdmin, &session.AdminUser)
			c.Set(ContextKeySession, session)

			return next(c)
		}
	}
}

// RequireRole is middleware that requires the admin to have one of the given roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			admin := GetCurrentAdmin(c)
			if admin == nil {
				return c.JSON(http.StatusUnauthorized, authError{Message: "Authentication required"})
			}
			for _, role := range roles {
				if admin.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, authError{Message: "Insufficient permissions"})
		}
	}
}

// GetCurrentAdmin returns the authenticated admin from context, or nil
func GetCurrentAdmin(c echo.Context) *models.AdminUser {
	admin, ok := c.Get(ContextKeyAdmin).(*models.AdminUser)
	if !ok {
		return nil
	}
	return admin
}

// bearerToken extracts the token from the Authorization header
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
