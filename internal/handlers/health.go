package handlers

import (
	"github.com/anonto42/vidtube/backend/internal/response"
	"github.com/labstack/echo/v4"
)

// HealthCheck reports that the API process is serving requests.
func HealthCheck(c echo.Context) error {
	return response.OK(c, "OK", "Health Check Passed")
}
