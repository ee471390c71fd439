package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"orderdesk/internal/model"
)

// identityContextKey is where Identity() stores the resolved caller.
const identityContextKey = "identity"

// Identity resolves the JWT placed in context by echo-jwt into typed claims.
// It must run after the echo-jwt middleware on every protected route; a
// request that reaches it without a parsed token is rejected outright.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(*Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			c.Set(identityContextKey, claims)
			return next(c)
		}
	}
}

// AdminOnly rejects callers whose token does not carry the admin role.
// The protected handler never runs on failure.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := CurrentUser(c)
			if err != nil {
				return err
			}
			if claims.Role != model.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

// CurrentUser returns the identity resolved by Identity().
func CurrentUser(c echo.Context) (*Claims, error) {
	claims, ok := c.Get(identityContextKey).(*Claims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	return claims, nil
}
