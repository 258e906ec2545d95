package cache

import (
	"context"
	"time"

	"pickleshop/internal/identity"

	"github.com/redis/go-redis/v9"
)

const (
	redirectStatePrefix  = keyPrefix + "redirect:state:"
	redirectResultPrefix = keyPrefix + "redirect:result:"
)

// RedirectStore は複数プロセスで共有する identity.RedirectStore
type RedirectStore struct {
	rdb redis.Cmdable
}

func NewRedirectStore(rdb redis.Cmdable) *RedirectStore {
	return &RedirectStore{rdb: rdb}
}

var _ identity.RedirectStore = (*RedirectStore)(nil)

func (s *RedirectStore) SaveState(ctx context.Context, state string, p identity.PendingRedirect, ttl time.Duration) error {
	return setJSON(ctx, s.rdb, redirectStatePrefix+state, p, ttl)
}

func (s *RedirectStore) TakeState(ctx context.Context, state string) (identity.PendingRedirect, bool, error) {
	var p identity.PendingRedirect
	ok, err := takeJSON(ctx, s.rdb, redirectStatePrefix+state, &p)
	return p, ok, err
}

func (s *RedirectStore) SaveResult(ctx context.Context, key string, r identity.RedirectResult, ttl time.Duration) error {
	return setJSON(ctx, s.rdb, redirectResultPrefix+key, r, ttl)
}

func (s *RedirectStore) TakeResult(ctx context.Context, key string) (identity.RedirectResult, bool, error) {
	var r identity.RedirectResult
	ok, err := takeJSON(ctx, s.rdb, redirectResultPrefix+key, &r)
	return r, ok, err
}
