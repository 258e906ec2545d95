// Package logger はlog/slogの薄いラッパー。
// prodではJSON、それ以外はテキストで標準出力に出す。
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type ctxKey struct{}

// New はGO_ENVに合わせたloggerを作り、slogのデフォルトにも設定する。
func New(production bool) *slog.Logger {
	return newWithWriter(os.Stdout, production)
}

func newWithWriter(w io.Writer, production bool) *slog.Logger {
	var h slog.Handler
	if production {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	l := slog.New(h)
	slog.SetDefault(l)
	return l
}

// Discard はテスト用
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Inject はリクエスト単位のloggerをctxに入れる
func Inject(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromCtx はctxのloggerを返す。無ければデフォルト。
func FromCtx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}
