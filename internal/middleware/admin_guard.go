package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminGuard はセッションのisAdminを確認します。
func AdminGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cl := ClientFrom(c)
			if cl == nil {
				return c.JSON(http.StatusUnauthorized, loginRequiredJSON())
			}
			snap := cl.Manager.Snapshot()
			if !snap.Authenticated() {
				return rejectAnonymous(c)
			}

			//管理者以外は拒否
			if !snap.IsAdmin {
				return c.JSON(http.StatusForbidden, errorJSON("access denied"))
			}
			return next(c)
		}
	}
}
