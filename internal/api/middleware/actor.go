package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
)

// ActorFinder loads accounts by id.
type ActorFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// LoadActor resolves the authenticated subject to its stored account. The
// stored role replaces the token claim, so suspensions and role changes take
// effect before the token expires. Anonymous requests pass through.
func LoadActor(users ActorFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, _ := c.Get(KeyUserID).(string)
			if id == "" {
				return next(c)
			}

			user, err := users.FindByID(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrActorNotFound.Message)
				}
				return err
			}
			if user.Status != domain.AccountActive {
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrAccountInactive.Message)
			}

			c.Set(KeyActor, user)
			c.Set(KeyRole, string(user.Role))
			return next(c)
		}
	}
}
