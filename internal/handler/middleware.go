package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shopcart/internal/auth"
	"shopcart/internal/model"
	"shopcart/internal/repository"
)

const currentUserKey = "currentUser"

// CurrentUser resolves the verified token's user id against the store and
// attaches the user to the context. The claims are only a hint: a token for
// a user that no longer exists is rejected as unauthenticated, so deleted
// users lose access before their tokens expire.
func CurrentUser(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}

			user, err := userRepo.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				c.Logger().Warnf("token for unknown user %d rejected", claims.UserID)
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}

			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// UserFromContext returns the user attached by CurrentUser.
func UserFromContext(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(currentUserKey).(*model.User)
	return user, ok
}
