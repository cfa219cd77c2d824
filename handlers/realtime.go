package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// WebSocketHandler handles GET /ws, upgrading the connection and handing
// it to the push hub. Connection failures surface as a plain HTTP error;
// clients retry per their reconnection policy.
func WebSocketHandler(c echo.Context) error {
	if PushHub == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Realtime is not enabled")
	}
	if err := PushHub.ServeWS(c.Response(), c.Request()); err != nil {
		c.Logger().Errorf("WebSocket upgrade failed: %v", err)
		return echo.NewHTTPError(http.StatusBadRequest, "WebSocket upgrade failed")
	}
	return nil
}
