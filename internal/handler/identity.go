package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID extracts the authenticated user ID stored by the JWT
// middleware.  JWT map claims decode numbers as float64; string subjects
// are parsed for robustness.
func currentUserID(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case float64:
		if v > 0 {
			return uint64(v), true
		}
	case uint64:
		return v, v > 0
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

// pathID parses a numeric path parameter such as :id.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	return n, err == nil && n > 0
}

// pageParams reads ?page= and ?page_size= with sane bounds.
func pageParams(c echo.Context, defaultSize, maxSize int) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	return page, pageSize
}
