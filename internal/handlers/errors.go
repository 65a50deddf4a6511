package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler renders errors as HTML pages. 404 and 403 get their own
// templates; everything else a generic status page.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := ""
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	}
	if code >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		message = ""
	}

	if c.Request().Method == http.MethodHead {
		if err := c.NoContent(code); err != nil {
			c.Logger().Error(err)
		}
		return
	}

	var page string
	data := echo.Map{"Message": message}
	switch code {
	case http.StatusNotFound:
		page = "core/404.html"
	case http.StatusForbidden:
		page = "core/403.html"
	default:
		page = "core/error.html"
		data["Status"] = code
		data["StatusText"] = http.StatusText(code)
	}

	if rerr := c.Render(code, page, data); rerr != nil {
		c.Logger().Errorf("render %s: %v", page, rerr)
		if err := c.String(code, http.StatusText(code)); err != nil {
			c.Logger().Error(err)
		}
	}
}
