package handler

import (
	"net/http"
	"strings"

	"pickleshop/internal/middleware"
	"pickleshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	ProductID string `json:"product_id"`
}

// /cart, /cart/:line_id を登録
func (h *CartHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/cart", h.getCart)
	g.POST("/cart", h.addToCart)
	g.DELETE("/cart/:line_id", h.deleteItem)
}

// 未ログインでも見られる（空のカート）
func (h *CartHandler) getCart(c echo.Context) error {
	cl := middleware.ClientFrom(c)
	return c.JSON(http.StatusOK, h.uc.View(cl.Cart))
}

func (h *CartHandler) addToCart(c echo.Context) error {
	cl := middleware.ClientFrom(c)

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if strings.TrimSpace(req.ProductID) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "product_id is required"})
	}

	snap := cl.Manager.Snapshot()
	out, err := h.uc.Add(c.Request().Context(), snap, cl.Cart, req.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	cl := middleware.ClientFrom(c)
	out, err := h.uc.Remove(cl.Cart, c.Param("line_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
