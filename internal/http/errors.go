package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	dto "priority-tasks.com/priority-tasks/internal/data_models"
	apperrors "priority-tasks.com/priority-tasks/internal/errors"
)

// ErrorHandler renders every failure as {"error": "..."}. Internal errors are
// logged and reported without details.
func ErrorHandler(logger *log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := apperrors.StatusCode(err)
		message := apperrors.Message(err)

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			message = fmt.Sprint(httpErr.Message)
		}

		if status >= http.StatusInternalServerError {
			logger.WithError(err).WithFields(log.Fields{
				"method":  c.Request().Method,
				"path":    c.Path(),
				"view_id": viewID(c),
			}).Error("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, dto.ErrorResponse{Error: message})
		}
		if writeErr != nil {
			logger.WithError(writeErr).Warn("failed to write error response")
		}
	}
}
