package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the body of every successful response.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// ErrorEnvelope is the body of every failed response.
type ErrorEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
	Success    bool     `json:"success"`
}

// New builds an envelope. Success is derived from the status code.
func New(statusCode int, data interface{}, message string) Envelope {
	return Envelope{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < http.StatusBadRequest,
	}
}

// NewError builds an error envelope. Errors is never null in the output.
func NewError(statusCode int, message string, errs []string) ErrorEnvelope {
	if errs == nil {
		errs = []string{}
	}
	return ErrorEnvelope{
		StatusCode: statusCode,
		Message:    message,
		Errors:     errs,
		Success:    false,
	}
}

// JSON writes data wrapped in an envelope.
func JSON(c echo.Context, statusCode int, data interface{}, message string) error {
	return c.JSON(statusCode, New(statusCode, data, message))
}

// OK is JSON with 200.
func OK(c echo.Context, data interface{}, message string) error {
	return JSON(c, http.StatusOK, data, message)
}

// Created is JSON with 201.
func Created(c echo.Context, data interface{}, message string) error {
	return JSON(c, http.StatusCreated, data, message)
}
