package handler

import (
	"net/http"

	"pickleshop/internal/middleware"
	"pickleshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

func (h *AdminOrderHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/orders", h.list)
	g.POST("/orders/:id/accept", h.accept)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.Request().Context(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// すでに承認済みでも200
func (h *AdminOrderHandler) accept(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	out, err := h.uc.AcceptOrder(c.Request().Context(), *actor, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
