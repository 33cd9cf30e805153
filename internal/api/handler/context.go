package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/performile/courier-platform/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call:
//   - role must be non-empty (presence proves the middleware ran).
//   - merchant/courier roles require a non-empty subject_id; without it the
//     JWT is structurally valid but operationally unusable — reject with 401.
func ctxClaims(c echo.Context) (role, subjectID string, err error) {
	role, _ = c.Get("role").(string)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	subjectID, _ = c.Get("subject_id").(string)
	if (role == domain.RoleMerchant || role == domain.RoleCourier) && subjectID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing subject identity")
	}

	return role, subjectID, nil
}
