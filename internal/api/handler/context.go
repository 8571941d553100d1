package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/explore-taroudant/explore-api/internal/api/middleware"
	"github.com/explore-taroudant/explore-api/internal/core/domain"
)

// ctxActor returns the account loaded by middleware.LoadActor. Its absence
// means the route was mounted without authentication; reject with 401.
func ctxActor(c echo.Context) (*domain.User, error) {
	actor, _ := c.Get(middleware.KeyActor).(*domain.User)
	if actor == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return actor, nil
}

// viewer returns the optional actor of a public route, nil when anonymous.
func viewer(c echo.Context) *domain.User {
	actor, _ := c.Get(middleware.KeyActor).(*domain.User)
	return actor
}

// bindValid binds the request body into req and validates it.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
