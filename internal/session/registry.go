package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pickleshop/internal/cart"
	"pickleshop/internal/metrics"
	"pickleshop/internal/repository"
)

// key（セッションID）ごとにAuthenticatorを作る
type AuthFactory func(ctx context.Context, key, token string) Authenticator

// ブラウザ1つ分。Reloadで Manager は作り直すが Cart は引き継ぐ。
type Client struct {
	ID      string
	Manager *Manager
	Cart    *cart.Cart
}

type entry struct {
	client   *Client
	lastSeen time.Time
}

type Registry struct {
	newAuth AuthFactory
	users   repository.UserRepository
	opts    Options
	idleTTL time.Duration
	now     func() time.Time

	mu      sync.Mutex
	clients map[string]*entry
}

func NewRegistry(newAuth AuthFactory, users repository.UserRepository, idleTTL time.Duration, opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Registry{
		newAuth: newAuth,
		users:   users,
		opts:    opts,
		idleTTL: idleTTL,
		now:     time.Now,
		clients: map[string]*entry{},
	}
}

func (r *Registry) open(ctx context.Context, sid, token string, c *cart.Cart) *Client {
	auth := r.newAuth(ctx, sid, token)
	return &Client{
		ID:      sid,
		Manager: NewManager(ctx, auth, r.users, r.opts),
		Cart:    c,
	}
}

// Get はsidのクライアントを返す。無ければtokenから復元して作る。
func (r *Registry) Get(ctx context.Context, sid, token string) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.clients[sid]; ok {
		e.lastSeen = r.now()
		return e.client
	}
	c := r.open(ctx, sid, token, cart.New())
	r.clients[sid] = &entry{client: c, lastSeen: r.now()}
	metrics.ActiveSessions.Set(float64(len(r.clients)))
	return c
}

// Guest は登録しない使い捨ての匿名クライアントを返す。
// 使い終わったら Manager.Close を呼ぶ。
func (r *Registry) Guest(ctx context.Context) *Client {
	return &Client{
		Manager: NewManager(ctx, guestAuth{}, r.users, r.opts),
		Cart:    cart.New(),
	}
}

func (r *Registry) Lookup(sid string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.clients[sid]
	if !ok {
		return nil, false
	}
	return e.client, true
}

// Reload はページの再読み込みに当たる。Managerを作り直し、redirect結果を確認させる。
// tokenが空なら今のManagerのトークンを使う。
func (r *Registry) Reload(ctx context.Context, sid, token string) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := cart.New()
	if e, ok := r.clients[sid]; ok {
		if token == "" {
			token, _ = e.client.Manager.Token()
		}
		c = e.client.Cart
		e.client.Manager.Close()
	}
	client := r.open(ctx, sid, token, c)
	r.clients[sid] = &entry{client: client, lastSeen: r.now()}
	metrics.ActiveSessions.Set(float64(len(r.clients)))
	return client
}

func (r *Registry) Remove(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.clients[sid]; ok {
		e.client.Manager.Close()
		delete(r.clients, sid)
		metrics.ActiveSessions.Set(float64(len(r.clients)))
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Sweep は idleTTL を過ぎたクライアントを閉じる。閉じた数を返す。
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.idleTTL)
	n := 0
	for sid, e := range r.clients {
		if e.lastSeen.Before(cutoff) {
			e.client.Manager.Close()
			delete(r.clients, sid)
			n++
		}
	}
	metrics.ActiveSessions.Set(float64(len(r.clients)))
	return n
}

// Run はctxが終わるまで定期的にSweepする
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(); n > 0 {
				r.opts.Logger.Info("evicted idle sessions", slog.Int("count", n))
			}
		}
	}
}

// 全クライアントを閉じる
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for sid, e := range r.clients {
		e.client.Manager.Close()
		delete(r.clients, sid)
	}
	metrics.ActiveSessions.Set(0)
}
