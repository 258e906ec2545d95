package middleware

import (
	"context"
	"net/http"
	"time"

	"pickleshop/internal/domain/model"
	"pickleshop/internal/identity"
	"pickleshop/internal/session"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CtxClientKey = "session_client" // *session.Client

	SessionCookie = "sid"
	TokenCookie   = "id_token"

	// 最初の判定を待つ上限
	readyTimeout = 5 * time.Second

	localTokenMaxAge = 30 * 24 * 60 * 60
)

type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// ログイン画面へ誘導するレスポンス
func loginRequiredJSON() errorResponse {
	return errorResponse{Error: "login required", Redirect: "/login"}
}

// 未ログイン時の応答。ブロックでサインアウトされた直後なら 403。
func rejectAnonymous(c echo.Context) error {
	if cl := ClientFrom(c); cl != nil && cl.Manager.Snapshot().Blocked {
		return c.JSON(http.StatusForbidden, errorJSON("account blocked"))
	}
	return c.JSON(http.StatusUnauthorized, loginRequiredJSON())
}

type SessionConfig struct {
	Registry     *session.Registry
	CookieSecure bool
}

// Session はsid cookieでクライアントを特定し、contextに入れる。
// cookie の無い GET などは登録しない使い捨てのクライアントで済ませ、sid も発行しない。
// レスポンスを書く前に id_token cookie を永続化モードに合わせて更新する。
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(SessionCookie); err == nil {
				sid = ck.Value
			}
			token := ""
			if ck, err := c.Cookie(TokenCookie); err == nil {
				token = ck.Value
			}
			ctx := c.Request().Context()

			_, err := uuid.Parse(sid)
			known := err == nil
			if !known && token == "" && isReadOnly(c.Request().Method) {
				guest := cfg.Registry.Guest(ctx)
				defer guest.Manager.Close()
				waitReady(ctx, guest)
				c.Set(CtxClientKey, guest)
				return next(c)
			}

			if !known {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.CookieSecure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			client := cfg.Registry.Get(ctx, sid, token)
			waitReady(ctx, client)

			c.Set(CtxClientKey, client)
			c.Response().Before(func() {
				if cl := ClientFrom(c); cl != nil {
					writeTokenCookie(c, cl, cfg.CookieSecure)
				}
			})
			return next(c)
		}
	}
}

func isReadOnly(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// 初回の判定（トークン復元・redirect結果）を待つ
func waitReady(ctx context.Context, client *session.Client) {
	wctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()
	_ = client.Manager.WaitReady(wctx)
}

func writeTokenCookie(c echo.Context, client *session.Client, secure bool) {
	token, p := client.Manager.Token()
	ck := &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	switch {
	case token == "" || p == identity.PersistenceNone:
		ck.Value = ""
		ck.MaxAge = -1
	case p == identity.PersistenceLocal:
		ck.MaxAge = localTokenMaxAge
	}
	// session はブラウザを閉じるまで（MaxAgeなし）
	c.SetCookie(ck)
}

func ClientFrom(c echo.Context) *session.Client {
	cl, _ := c.Get(CtxClientKey).(*session.Client)
	return cl
}

// Reload後など、contextのクライアントを差し替える
func SetClient(c echo.Context, client *session.Client) {
	c.Set(CtxClientKey, client)
}

// ログイン中のユーザー（未ログインならnil）
func CurrentUser(c echo.Context) *model.User {
	cl := ClientFrom(c)
	if cl == nil {
		return nil
	}
	snap := cl.Manager.Snapshot()
	if !snap.Authenticated() {
		return nil
	}
	return snap.User
}
