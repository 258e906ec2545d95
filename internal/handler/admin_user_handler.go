package handler

import (
	"net/http"

	"pickleshop/internal/middleware"
	"pickleshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ユーザー管理と監査ログ
type AdminUserHandler struct {
	uc     *usecase.AdminUserUsecase
	audits *usecase.AuditLogUsecase
}

func NewAdminUserHandler(uc *usecase.AdminUserUsecase, audits *usecase.AuditLogUsecase) *AdminUserHandler {
	return &AdminUserHandler{uc: uc, audits: audits}
}

func (h *AdminUserHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/users", h.list)
	g.POST("/users/:id/toggle-block", h.toggleBlock)
	g.GET("/audit-logs", h.auditLogs)
}

func (h *AdminUserHandler) list(c echo.Context) error {
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

func (h *AdminUserHandler) toggleBlock(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	out, err := h.uc.ToggleBlock(c.Request().Context(), *actor, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /admin/audit-logs?resource_type=&page=
func (h *AdminUserHandler) auditLogs(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.audits.List(c.Request().Context(), c.QueryParam("resource_type"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
