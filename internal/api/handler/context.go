package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rolemanagement/usermanager/internal/api/middleware"
	"github.com/rolemanagement/usermanager/internal/core/domain"
)

// ctxIdentity returns the caller injected by the Authenticate middleware.
// A missing identity means the route was mounted without authentication.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok || identity.UserID == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return identity, nil
}
