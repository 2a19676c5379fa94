package middleware

import (
	"errors"
	"myCatalog/pkg/logger"
	"net/http"
	"strings"

	jsonres "myCatalog/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that escaped the handlers, mostly echo's own
// 404/405 and bind failures, in the same envelope the middleware uses.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	} else {
		logger.Error("unhandled error", append([]any{"error", err}, logger.WithTrace(c.Request().Context())...)...)
	}

	status := strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, jsonres.Error(status, message, nil))
	}
	if writeErr != nil {
		logger.Error("failed to write error response", writeErr)
	}
}
