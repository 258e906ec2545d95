package middleware

import (
	"errors"
	"log/slog"

	"pickleshop/internal/domain/apperr"
	"pickleshop/internal/logger"

	"github.com/labstack/echo/v4"
)

// AccountStatusGuard はログイン中ユーザーのステータスを毎回DBで確認する。
// ブロックされていればその場でサインアウトし、以降は未ログインとして扱う。
func AccountStatusGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cl := ClientFrom(c)
			if cl == nil {
				return next(c)
			}

			ctx := c.Request().Context()
			err := cl.Manager.Revalidate(ctx)
			switch {
			case err == nil, errors.Is(err, apperr.ErrAccountBlocked):
			default:
				//DBが読めないときは今のセッションのまま続ける
				logger.FromCtx(ctx).WarnContext(ctx, "revalidate session", slog.Any("err", err))
			}
			return next(c)
		}
	}
}
