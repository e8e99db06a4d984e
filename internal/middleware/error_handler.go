package middleware

import (
	"net/http"
	"steezestore/pkg/logger"

	jsonres "steezestore/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the echo HTTPErrorHandler: echo errors keep their status,
// everything else becomes a generic 500 so internals never leak.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	if httpErr, ok := err.(*echo.HTTPError); ok {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	} else {
		logger.Error("Unhandled error", err, "path", c.Request().URL.Path)
	}

	_ = c.JSON(code, jsonres.Error(http.StatusText(code), message, nil))
}
