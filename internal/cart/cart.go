// Package cart はクライアントごとのカート（メモリのみ）。
package cart

import (
	"sync"
	"time"

	"pickleshop/internal/domain/apperr"
	"pickleshop/internal/domain/model"

	"github.com/google/uuid"
)

// ログイン中かどうかだけ分かればよい
type Session interface {
	Authenticated() bool
}

// 未ログインで追加したときの遷移先
const LoginRedirect = "/login"

type Cart struct {
	mu      sync.Mutex
	entries []model.CartEntry

	newID func() string
	now   func() time.Time
}

func New() *Cart {
	return &Cart{newID: uuid.NewString, now: time.Now}
}

// Add は未ログインなら何もせず ErrLoginRequired を返す。
func (c *Cart) Add(sess Session, p model.Product) (model.CartEntry, error) {
	if sess == nil || !sess.Authenticated() {
		return model.CartEntry{}, apperr.ErrLoginRequired
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	e := model.CartEntry{LineID: c.newID(), Product: p, AddedAt: c.now()}
	c.entries = append(c.entries, e)
	return e, nil
}

// 見つからなければfalse
func (c *Cart) Remove(lineID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.entries {
		if e.LineID == lineID {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return true
		}
	}
	return false
}

// 範囲外は何もしない
func (c *Cart) RemoveAt(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.entries) {
		return
	}
	c.entries = append(c.entries[:index], c.entries[index+1:]...)
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}

// 毎回合計し直す
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int64
	for _, e := range c.entries {
		total += e.Product.Price
	}
	return total
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// コピーを返す
func (c *Cart) Entries() []model.CartEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.CartEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// 注文に使うカートの中身。LineIDs は注文後に RemoveLines へ渡す。
type Contents struct {
	Items   []model.OrderItem
	LineIDs []string
	Total   int64
}

// 注文明細のスナップショットと合計
func (c *Cart) Snapshot() Contents {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := Contents{
		Items:   make([]model.OrderItem, 0, len(c.entries)),
		LineIDs: make([]string, 0, len(c.entries)),
	}
	for _, e := range c.entries {
		out.Items = append(out.Items, e.ToOrderItem())
		out.LineIDs = append(out.LineIDs, e.LineID)
		out.Total += e.Product.Price
	}
	return out
}

// RemoveLines は指定した行だけ消す。Snapshot 後に追加された行は残る。消した数を返す。
func (c *Cart) RemoveLines(lineIDs []string) int {
	drop := make(map[string]struct{}, len(lineIDs))
	for _, id := range lineIDs {
		drop[id] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.entries[:0]
	for _, e := range c.entries {
		if _, ok := drop[e.LineID]; ok {
			continue
		}
		kept = append(kept, e)
	}
	n := len(c.entries) - len(kept)
	c.entries = kept
	return n
}
