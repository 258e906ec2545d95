package server

import (
	"pickleshop/internal/handler"
	"pickleshop/internal/middleware"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	AdminProduct *handler.AdminProductHandler
	AdminOrder   *handler.AdminOrderHandler
	AdminUser    *handler.AdminUserHandler
}

// /healthz, /metrics 以外はセッション付き。
// ログイン中はリクエストごとにアカウントのステータスを確認する。
func RegisterRoutes(e *echo.Echo, sess middleware.SessionConfig, h Handlers) {
	app := e.Group("", middleware.Session(sess), middleware.AccountStatusGuard())

	h.Auth.RegisterRoutes(app)
	h.Product.RegisterRoutes(app)
	h.Cart.RegisterRoutes(app)
	h.Order.RegisterRoutes(app)

	admin := app.Group("/admin", middleware.AdminGuard())
	h.AdminProduct.RegisterRoutes(admin)
	h.AdminOrder.RegisterRoutes(admin)
	h.AdminUser.RegisterRoutes(admin)
}
