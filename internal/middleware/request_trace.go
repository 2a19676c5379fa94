package middleware

import (
	"myCatalog/pkg/logger"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const HeaderRequestID = echo.HeaderXRequestID

// RequestTrace tags each request with a trace id, taken from X-Request-ID
// when the client supplies one, and logs the request when it completes.
func RequestTrace() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			traceID := req.Header.Get(HeaderRequestID)
			if traceID == "" {
				traceID = uuid.NewString()
			}

			c.SetRequest(req.WithContext(logger.ContextWithTraceID(req.Context(), traceID)))
			c.Response().Header().Set(HeaderRequestID, traceID)

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Info("http request",
				"trace_id", traceID,
				"method", req.Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency", time.Since(start).String(),
			)

			return nil
		}
	}
}
