// Package middleware provides the request-processing chain shared by
// handlers: identity extraction, permission enforcement and login
// rate limiting.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/access-control/internal/auth"
)

// Context key under which the resolved principal is stored.
const principalKey = "principal"

// Principal returns the principal attached to the request by
// Authenticate. Routes without the middleware get the anonymous
// principal.
func Principal(c echo.Context) auth.Principal {
	if p, ok := c.Get(principalKey).(auth.Principal); ok {
		return p
	}
	return auth.Principal{}
}

// Authenticate resolves the Authorization header to a principal and
// attaches it to the request context. It never rejects a request by
// itself: a missing or unusable token simply yields the anonymous
// principal, and authorization (or the handler) decides what that
// means. Only a store failure stops the request, as a server error.
func Authenticate(a *auth.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := a.Authenticate(c.Request().Context(), c.Request().Header.Get("Authorization"))
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "authentication unavailable"})
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// RequireAuth rejects requests whose principal is anonymous with a
// 401 before any permission lookup. Used for endpoints that need an
// identity but no specific permission (profile, logout).
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Principal(c).Anonymous() {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			return next(c)
		}
	}
}

// Authorize enforces the permission table for a route. The
// Resolution determines the resource name (explicit, computed, or
// the structural fallback); the method component is always the
// literal request method. Anonymous principals get a 401, denied
// ones a 403, and a store outage a 500 - an outage must never be
// reported as a deny.
func Authorize(ev *auth.Evaluator, res auth.Resolution) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := Principal(c)
			if p.Anonymous() {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			req := auth.ResourceRequest{
				Method:     c.Request().Method,
				HasItemRef: len(c.ParamNames()) > 0,
			}
			d, err := ev.Authorize(c.Request().Context(), p, res.Key(req))
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "authorization unavailable"})
			}
			if d != auth.Allow {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
