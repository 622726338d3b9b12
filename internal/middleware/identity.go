package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// requestUserID reads the authenticated subject set by JWTAuth, falling
// back to "anon" for unauthenticated requests. JWT map claims decode
// numbers as float64, so both representations are handled.
func requestUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	}
	return "anon"
}
