package middleware

import (
	"github.com/labstack/echo/v4"
)

// LoginRequired は未ログインなら 401 と /login への誘導を返す。
// ブロックされたアカウントは 403。
func LoginRequired() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return rejectAnonymous(c)
			}
			return next(c)
		}
	}
}
