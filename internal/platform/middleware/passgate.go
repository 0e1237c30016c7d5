package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// PasswordGate protects every route behind a single shared secret. The
// secret is read from the X-App-Password header or a "Bearer" token. An
// empty configured password disables the gate.
func PasswordGate(password string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.TrimSpace(password) == "" {
				return next(c)
			}

			supplied := c.Request().Header.Get("X-App-Password")
			if supplied == "" {
				if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
					supplied = strings.TrimPrefix(auth, "Bearer ")
				}
			}

			if subtle.ConstantTimeCompare([]byte(supplied), []byte(password)) != 1 {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid application password")
			}
			return next(c)
		}
	}
}
