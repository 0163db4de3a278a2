package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/account"
)

// roleMiddleware lets the request through only when the caller's role is in
// the allowed set. It must run after identityMiddleware.
func roleMiddleware(roles ...account.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ident, err := getContextIdentity(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context identity")
			}
			if ident.HasRole(roles...) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
