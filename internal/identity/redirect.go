package identity

import (
	"context"
	"sync"
	"time"

	"pickleshop/internal/domain/apperr"
	"pickleshop/internal/domain/model"
)

// redirect開始時に保存する（state → クライアント）
type PendingRedirect struct {
	Key      string             `json:"key"`
	Provider model.AuthProvider `json:"provider"`
}

// callback後にクライアントが受け取る結果
type RedirectResult struct {
	Identity *Identity       `json:"identity,omitempty"`
	ErrCode  apperr.AuthCode `json:"err_code,omitempty"`
	ErrMsg   string          `json:"err_msg,omitempty"`
}

// Err はサインイン失敗の結果ならAuthErrorを返す。
func (r RedirectResult) Err() error {
	if r.ErrCode == "" {
		return nil
	}
	return apperr.NewAuthError(r.ErrCode, r.ErrMsg)
}

// redirectの途中状態の保存先。Take系は1回だけ取り出せる。
type RedirectStore interface {
	SaveState(ctx context.Context, state string, p PendingRedirect, ttl time.Duration) error
	TakeState(ctx context.Context, state string) (PendingRedirect, bool, error)
	SaveResult(ctx context.Context, key string, r RedirectResult, ttl time.Duration) error
	TakeResult(ctx context.Context, key string) (RedirectResult, bool, error)
}

type memoryEntry[T any] struct {
	v   T
	exp time.Time
}

// プロセス内の RedirectStore（REDIS_ADDR未設定、テスト用）
type MemoryRedirectStore struct {
	mu      sync.Mutex
	states  map[string]memoryEntry[PendingRedirect]
	results map[string]memoryEntry[RedirectResult]
	now     func() time.Time
}

func NewMemoryRedirectStore() *MemoryRedirectStore {
	return &MemoryRedirectStore{
		states:  map[string]memoryEntry[PendingRedirect]{},
		results: map[string]memoryEntry[RedirectResult]{},
		now:     time.Now,
	}
}

func (m *MemoryRedirectStore) SaveState(_ context.Context, state string, p PendingRedirect, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state] = memoryEntry[PendingRedirect]{v: p, exp: m.now().Add(ttl)}
	return nil
}

func (m *MemoryRedirectStore) TakeState(_ context.Context, state string) (PendingRedirect, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.states[state]
	delete(m.states, state)
	if !ok || m.now().After(e.exp) {
		return PendingRedirect{}, false, nil
	}
	return e.v, true, nil
}

func (m *MemoryRedirectStore) SaveResult(_ context.Context, key string, r RedirectResult, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[key] = memoryEntry[RedirectResult]{v: r, exp: m.now().Add(ttl)}
	return nil
}

func (m *MemoryRedirectStore) TakeResult(_ context.Context, key string) (RedirectResult, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.results[key]
	delete(m.results, key)
	if !ok || m.now().After(e.exp) {
		return RedirectResult{}, false, nil
	}
	return e.v, true, nil
}
