package middleware

// identity.go holds the context keys JWTAuth fills in and small accessors
// shared by the other middleware and by handlers.

import "github.com/labstack/echo/v4"

const (
	ContextUserID = "user_id" // string subject of the access token
	ContextRole   = "role"    // string role claim (USER or ADMIN)
)

// UserID returns the authenticated user id, or "anon" when the request
// carries none.
func UserID(c echo.Context) string {
	if s, ok := c.Get(ContextUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}

// Role returns the authenticated role, or "" when absent.
func Role(c echo.Context) string {
	s, _ := c.Get(ContextRole).(string)
	return s
}
