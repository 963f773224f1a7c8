package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lojaConforto/pkg/logger"
	jsonres "lojaConforto/pkg/response"
)

// ErrorHandler is the echo-level fallback for errors that escape the
// handlers (404s, method mismatches, panics caught by Recover).
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
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled request error", err)
	}

	if jsonErr := c.JSON(code, jsonres.Error(http.StatusText(code), message, nil)); jsonErr != nil {
		logger.Error("Failed to write error response", jsonErr)
	}
}
