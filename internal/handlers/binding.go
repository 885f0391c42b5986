package handlers

import (
	"github.com/anonto42/vidtube/backend/internal/aggregate"
	"github.com/anonto42/vidtube/backend/internal/apperror"
	"github.com/labstack/echo/v4"
)

func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperror.BadRequest("Invalid request payload").WithCause(err)
	}
	return nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := bind(c, req); err != nil {
		return err
	}
	return c.Validate(req)
}

func pageOptions(c echo.Context) aggregate.PageOptions {
	return aggregate.ParsePageOptions(c.QueryParam("page"), c.QueryParam("limit"))
}
