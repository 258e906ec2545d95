package handler

import (
	"net/http"

	"pickleshop/internal/domain/model"
	"pickleshop/internal/pagination"
	"pickleshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /products の公開API
type ProductHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewProductHandler(uc *usecase.CatalogUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type ProductListResponse struct {
	pagination.Page[model.Product]
	Category   string   `json:"category"`
	Categories []string `json:"categories"`
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/products", h.list)
	g.GET("/products/:id", h.detail)
}

func (h *ProductHandler) list(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}
	category := c.QueryParam("category")

	out := h.uc.ListProducts(c.Request().Context(), category, page)
	return c.JSON(http.StatusOK, ProductListResponse{
		Page:       out,
		Category:   category,
		Categories: h.uc.Categories(),
	})
}

func (h *ProductHandler) detail(c echo.Context) error {
	p, err := h.uc.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
