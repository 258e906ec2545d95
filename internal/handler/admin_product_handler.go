package handler

import (
	"net/http"

	"pickleshop/internal/middleware"
	"pickleshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminProductHandler struct {
	uc *usecase.AdminProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.AdminProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

// g は AdminGuard 済みの /admin グループ
func (h *AdminProductHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/products", h.list)
	g.POST("/products", h.createProduct)
	g.PUT("/products/:id", h.updateProduct)
	g.DELETE("/products/:id", h.deleteProduct)
}

func (h *AdminProductHandler) list(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.uc.List(c.Request().Context(), page))
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	var req usecase.ProductInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	actor := middleware.CurrentUser(c)
	out, err := h.uc.Create(c.Request().Context(), *actor, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// 無ければ作る
func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	var req usecase.ProductInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	actor := middleware.CurrentUser(c)
	out, err := h.uc.Update(c.Request().Context(), *actor, c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if err := h.uc.Delete(c.Request().Context(), *actor, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
