package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pickleshop/internal/handler"
	"pickleshop/internal/identity"
	"pickleshop/internal/infra/db"
	"pickleshop/internal/infra/mq"
	infraRepo "pickleshop/internal/infra/repository"
	"pickleshop/internal/logger"
	"pickleshop/internal/middleware"
	"pickleshop/internal/server"
	"pickleshop/internal/session"
	"pickleshop/internal/usecase"
	"pickleshop/internal/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const adminEmail = "admin@pickleball.com"

type app struct {
	e        *echo.Echo
	registry *session.Registry
}

// sqliteと本物のidentity/sessionで組み立てたAPI
func newApp(t *testing.T) *app {
	t.Helper()
	log := logger.Discard()

	gdb, err := db.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))

	users := infraRepo.NewUserGormRepository(gdb)
	products := infraRepo.NewProductGormRepository(gdb)
	orders := infraRepo.NewOrderGormRepository(gdb)
	audits := infraRepo.NewAuditLogGormRepository(gdb)

	ident := identity.NewService(identity.Options{
		Credentials:           infraRepo.NewCredentialRepository(gdb),
		Hasher:                identity.NewBcryptPasswordHasher(bcrypt.MinCost),
		Tokens:                identity.NewTokenIssuer("test-secret-test-secret-test-secret"),
		Logger:                log,
		PasswordSignInEnabled: true,
	})
	registry := session.NewRegistry(
		func(ctx context.Context, key, token string) session.Authenticator {
			return ident.NewAuth(ctx, key, token)
		},
		users, 0,
		session.Options{BootstrapAdminEmail: adminEmail, Logger: log},
	)
	t.Cleanup(registry.Close)

	events := mq.NewLogPublisher(log)
	catalog := usecase.NewCatalogUsecase(products, log)

	e := server.New(server.Options{FEURL: "http://localhost:5173", Logger: log})
	server.RegisterRoutes(e, middleware.SessionConfig{Registry: registry}, server.Handlers{
		Auth:    handler.NewAuthHandler(usecase.NewAuthUsecase(validator.NewAuthValidator(), log), registry, ident, "http://localhost:5173", log),
		Product: handler.NewProductHandler(catalog),
		Cart:    handler.NewCartHandler(usecase.NewCartUsecase(catalog)),
		Order: handler.NewOrderHandler(usecase.NewOrderUsecase(
			orders, validator.NewCheckoutValidator(), events, usecase.UUIDGenerator{}, log)),
		AdminProduct: handler.NewAdminProductHandler(usecase.NewAdminProductUsecase(
			catalog, products, audits, validator.NewProductValidator(), usecase.UUIDGenerator{}, usecase.SystemClock{}, log)),
		AdminOrder: handler.NewAdminOrderHandler(usecase.NewAdminOrderUsecase(orders, audits, events, log)),
		AdminUser: handler.NewAdminUserHandler(
			usecase.NewAdminUserUsecase(users, audits, adminEmail, log),
			usecase.NewAuditLogUsecase(audits)),
	})
	return &app{e: e, registry: registry}
}

// cookieを覚えるブラウザ代わり
type browser struct {
	t       *testing.T
	app     *app
	cookies map[string]*http.Cookie
}

func (a *app) browser(t *testing.T) *browser {
	return &browser{t: t, app: a, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path string, body any) *httptest.ResponseRecorder {
	b.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(b.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	b.app.e.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(b.cookies, ck.Name)
			continue
		}
		b.cookies[ck.Name] = ck
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type sessionResp struct {
	State   string `json:"state"`
	Loading bool   `json:"loading"`
	IsAdmin bool   `json:"is_admin"`
	Blocked bool   `json:"blocked"`
	User    *struct {
		ID     string `json:"id"`
		Email  string `json:"email"`
		Role   string `json:"role"`
		Status string `json:"status"`
	} `json:"user"`
	RedirectURL string `json:"redirect_url"`
}

type errorResp struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Redirect string `json:"redirect"`
}

type cartResp struct {
	Items []struct {
		LineID  string `json:"line_id"`
		Product struct {
			ID    string `json:"id"`
			Price int64  `json:"price"`
		} `json:"product"`
	} `json:"items"`
	Count int   `json:"count"`
	Total int64 `json:"total"`
}

type orderResp struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Total  int64  `json:"total"`
	Status string `json:"status"`
	Items  []struct {
		ProductID string `json:"product_id"`
	} `json:"items"`
}

type pageResp[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
	TotalItems int   `json:"total_items"`
	Pages      []int `json:"pages"`
}

func (b *browser) register(email, password string) sessionResp {
	b.t.Helper()
	rec := b.do(http.MethodPost, "/auth/register", map[string]string{"email": email, "password": password})
	require.Equal(b.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[sessionResp](b.t, rec)
}
