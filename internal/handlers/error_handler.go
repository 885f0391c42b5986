package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/apperror"
	"github.com/anonto42/vidtube/backend/internal/response"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NewHTTPErrorHandler renders every error returned by a handler or
// middleware as an error envelope.
func NewHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		envelope := ErrorEnvelope(err)
		if envelope.StatusCode >= http.StatusInternalServerError {
			logger.Error("Request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(envelope.StatusCode)
		} else {
			writeErr = c.JSON(envelope.StatusCode, envelope)
		}
		if writeErr != nil {
			logger.Error("Failed to write error response", zap.Error(writeErr))
		}
	}
}

// ErrorEnvelope classifies err into the envelope sent to clients.
// Unclassified errors never expose their text.
func ErrorEnvelope(err error) response.ErrorEnvelope {
	if appErr, ok := apperror.As(err); ok {
		return response.NewError(appErr.StatusCode, appErr.Message, appErr.Errors)
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if he.Message != nil {
			message = fmt.Sprint(he.Message)
		}
		return response.NewError(he.Code, message, nil)
	}
	return response.NewError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), nil)
}
