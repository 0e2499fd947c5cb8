package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID renders the authenticated user id for rate-limit keys.
// JWTAuth stores the raw claim value, which arrives as float64 from the
// token decoder, so any scalar type is accepted. Unauthenticated requests
// share the "anon" bucket per client IP.
func currentUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "anon"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		return fmt.Sprintf("%.0f", t)
	case uint64:
		return fmt.Sprintf("%d", t)
	case int64:
		return fmt.Sprintf("%d", t)
	case int:
		return fmt.Sprintf("%d", t)
	}
	return "anon"
}
