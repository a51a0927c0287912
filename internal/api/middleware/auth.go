package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rolemanagement/usermanager/internal/core/domain"
	"github.com/rolemanagement/usermanager/internal/core/ports"
)

const (
	// SessionCookie carries the token for browser clients.
	SessionCookie = "session_token"

	identityKey = "identity"
)

// Authenticate resolves the caller from the Authorization header (falling back
// to the session cookie) and stores the identity on the context.
func Authenticate(auth ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := TokenFrom(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}

			identity, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
				}
				return err
			}

			SetIdentity(c, identity)
			return next(c)
		}
	}
}

// TokenFrom returns the bearer token, or the session cookie value when no
// Authorization header is present.
func TokenFrom(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// IdentityFrom returns the identity set by Authenticate.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(domain.Identity)
	return identity, ok
}

// SetIdentity stores identity on the context. Used by Authenticate and tests.
func SetIdentity(c echo.Context, identity domain.Identity) {
	c.Set(identityKey, identity)
}
