package api

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Olatundeawo/ordora/internal/service"
)

// JWTMiddleware authenticates requests and parses the role-carrying claims
// issued at login. Only access tokens pass; a refresh token in the
// Authorization header is rejected even though it carries the same key.
func JWTMiddleware(secret string) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.JwtCustomClaims)
		},
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(func(c echo.Context) error {
			claims := claimsFrom(c)
			if claims == nil || claims.TokenType != service.TokenTypeAccess {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "access token required"})
			}
			return next(c)
		})
	}
}

func claimsFrom(c echo.Context) *service.JwtCustomClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*service.JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}

// RequireRole gates a route to one role; producer-only and customer-only
// views both use it.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := claimsFrom(c)
			if claims == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}
			if claims.Role != role {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden for role " + claims.Role})
			}
			return next(c)
		}
	}
}
