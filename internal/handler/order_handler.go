package handler

import (
	"net/http"

	"pickleshop/internal/middleware"
	"pickleshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/checkout", h.create, middleware.LoginRequired())
	g.GET("/my-orders", h.list, middleware.LoginRequired())
}

// POST /checkout
func (h *OrderHandler) create(c echo.Context) error {
	var req usecase.CheckoutInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	cl := middleware.ClientFrom(c)
	out, err := h.uc.PlaceOrder(c.Request().Context(), middleware.CurrentUser(c), cl.Cart, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// GET /my-orders?page=
func (h *OrderHandler) list(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListMyOrders(c.Request().Context(), middleware.CurrentUser(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
