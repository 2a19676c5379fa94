package rest

import (
	"context"
	"errors"
	"myCatalog/domain"
	"myCatalog/pkg/logger"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// statusFor maps domain sentinel errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrContractViolation), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvariantBreach):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err with the request trace id and writes the mapped response.
// Internal errors are not echoed back to the client.
func fail(c echo.Context, msg string, err error) error {
	code := statusFor(err)

	args := append([]any{"error", err}, logger.WithTrace(c.Request().Context())...)
	if code >= http.StatusInternalServerError {
		logger.Error(msg, args...)
		return c.JSON(code, ResponseError{Message: http.StatusText(code)})
	}
	logger.Warn(msg, args...)

	return c.JSON(code, ResponseError{Message: err.Error()})
}

func badRequest(c echo.Context, msg string, err error) error {
	logger.Warn(msg, append([]any{"error", err}, logger.WithTrace(c.Request().Context())...)...)
	return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
}

// actorFrom builds the caller identity left by the auth middleware. Anonymous
// requests yield the zero Actor.
func actorFrom(c echo.Context) domain.Actor {
	userID, _ := c.Get("user_id").(uint)
	name, _ := c.Get("user_name").(string)
	role, _ := c.Get("role").(string)

	return domain.Actor{UserID: userID, UserName: name, Role: role}
}

func paramID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}
