package api

import (
	"errors"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/Abhishek6827/Kanban-WorkBoard/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// fieldErrors mirrors the field-scoped validation body: {"field": ["msg"]}.
type fieldErrors map[string][]string

func jsonError(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorResponse{Error: msg})
}

func fieldError(c echo.Context, field, msg string) error {
	return c.JSON(400, fieldErrors{field: {msg}})
}

// internalError logs the real failure server-side and answers with a generic
// message. Raw error text never reaches the caller.
func internalError(c echo.Context, logger *log.Logger, op string, err error) error {
	logger.WithError(err).WithField("op", op).Error("internal error")
	return jsonError(c, 500, "An unexpected error occurred.")
}

// storeError maps lookup failures onto the fixed vocabulary: a missing entity
// is 404 with the given message, anything else is a logged 500.
func storeError(c echo.Context, logger *log.Logger, op string, err error, notFoundMsg string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return jsonError(c, 404, notFoundMsg)
	}
	return internalError(c, logger, op, err)
}
