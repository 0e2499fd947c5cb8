package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the user_id the JWT middleware stored on the context.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// isCustomer reports whether the role middleware tagged this request as a
// customer session. The booking service rejects non-customers as well;
// this is only used to shape the claim passed down to it.
func isCustomer(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "CUSTOMER"
}
