// Package mw holds the echo middleware shared across routes.
package mw

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/postline/postline/internal/domain"
	"github.com/postline/postline/internal/infrastructure/identity"
)

const userContextKey = "user"

// TokenResolver resolves a bearer token to the user it belongs to.
// The HTTP implementation lives in infrastructure/identity.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// BearerAuth extracts the bearer token, resolves it against the identity
// service, and stores the user in the echo context for downstream handlers.
func BearerAuth(resolver TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := resolver.Resolve(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, identity.ErrUnauthorized) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				log.Error().Err(err).Msg("identity resolve failed")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "identity service unavailable")
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by BearerAuth. It panics if called on
// a route that skipped authentication, which is a programming error.
func CurrentUser(c echo.Context) *domain.User {
	return c.Get(userContextKey).(*domain.User)
}
