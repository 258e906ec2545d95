package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pickleshop/internal/domain/apperr"
	"pickleshop/internal/domain/model"
	"pickleshop/internal/identity"
	"pickleshop/internal/middleware"
	"pickleshop/internal/session"
	"pickleshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// reload後の初回判定を待つ上限
const reloadWait = 5 * time.Second

// Redirect用（identity.Serviceが実装）
type RedirectCompleter interface {
	CompleteRedirect(ctx context.Context, kind model.AuthProvider, state, code string) (string, error)
}

type AuthHandler struct {
	uc        *usecase.AuthUsecase
	registry  *session.Registry
	redirects RedirectCompleter
	feURL     string
	log       *slog.Logger
}

// DIコンストラクタ
func NewAuthHandler(uc *usecase.AuthUsecase, registry *session.Registry, redirects RedirectCompleter, feURL string, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		uc:        uc,
		registry:  registry,
		redirects: redirects,
		feURL:     strings.TrimRight(feURL, "/"),
		log:       log,
	}
}

type persistenceRequest struct {
	Mode string `json:"mode"`
}

func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/api/session", h.session)

	a := g.Group("/auth")
	a.POST("/login", h.login)
	a.POST("/register", h.register)
	a.POST("/logout", h.logout)
	a.POST("/refresh-session", h.refreshSession)
	a.PUT("/persistence", h.setPersistence)
	a.POST("/federated/:provider", h.federated)
	a.GET("/callback/:provider", h.callback)
}

// GET /api/session
func (h *AuthHandler) session(c echo.Context) error {
	cl := middleware.ClientFrom(c)
	return c.JSON(http.StatusOK, cl.Manager.Snapshot())
}

// POST /auth/login
func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.AuthRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	cl := middleware.ClientFrom(c)
	snap, err := h.uc.Login(c.Request().Context(), cl.Manager, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// POST /auth/register
func (h *AuthHandler) register(c echo.Context) error {
	var req usecase.AuthRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	cl := middleware.ClientFrom(c)
	snap, err := h.uc.Register(c.Request().Context(), cl.Manager, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, snap)
}

// POST /auth/logout
func (h *AuthHandler) logout(c echo.Context) error {
	cl := middleware.ClientFrom(c)
	snap, err := h.uc.Logout(c.Request().Context(), cl.Manager)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// POST /auth/refresh-session
// Managerを作り直す（カートはそのまま）
func (h *AuthHandler) refreshSession(c echo.Context) error {
	cl := middleware.ClientFrom(c)
	next := h.reload(c.Request().Context(), cl.ID)
	middleware.SetClient(c, next)
	return c.JSON(http.StatusOK, next.Manager.Snapshot())
}

func (h *AuthHandler) reload(ctx context.Context, sid string) *session.Client {
	next := h.registry.Reload(ctx, sid, "")
	wctx, cancel := context.WithTimeout(ctx, reloadWait)
	defer cancel()
	if err := next.Manager.WaitReady(wctx); err != nil {
		h.log.WarnContext(ctx, "session not ready after reload", slog.Any("err", err))
	}
	return next
}

// PUT /auth/persistence {"mode":"local|session|none"}
func (h *AuthHandler) setPersistence(c echo.Context) error {
	var req persistenceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	cl := middleware.ClientFrom(c)
	if err := h.uc.SetPersistence(cl.Manager, req.Mode); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// POST /auth/federated/:provider
// body はpopupの結果。ブロック・キャンセル時は redirect_url を返す。
func (h *AuthHandler) federated(c echo.Context) error {
	var popup identity.Popup
	if err := c.Bind(&popup); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	cl := middleware.ClientFrom(c)
	out, err := h.uc.Federated(c.Request().Context(), cl.Manager, c.Param("provider"), popup)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /auth/callback/:provider?state=&code=
// 結果を保存してからセッションを読み込み直し、フロントへ戻す。
func (h *AuthHandler) callback(c echo.Context) error {
	kind, ok := usecase.ParseProvider(c.Param("provider"))
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown provider"})
	}
	ctx := c.Request().Context()

	key, err := h.redirects.CompleteRedirect(ctx, kind, c.QueryParam("state"), c.QueryParam("code"))
	if err != nil {
		if ae, isAuth := apperr.AsAuthError(err); isAuth {
			return c.Redirect(http.StatusSeeOther, h.feURL+"/login?error="+url.QueryEscape(string(ae.Code)))
		}
		return writeError(c, err)
	}

	next := h.reload(ctx, key)
	if cl := middleware.ClientFrom(c); cl != nil && cl.ID == key {
		middleware.SetClient(c, next)
	}
	return c.Redirect(http.StatusSeeOther, h.feURL+"/")
}
