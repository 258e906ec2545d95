package usecase

import (
	"context"

	"pickleshop/internal/cart"
	"pickleshop/internal/domain/apperr"
	"pickleshop/internal/domain/model"
)

// カートの表示用
type CartView struct {
	Items []model.CartEntry `json:"items"`
	Count int               `json:"count"`
	Total int64             `json:"total"`
}

type CartUsecase struct {
	catalog *CatalogUsecase
}

func NewCartUsecase(catalog *CatalogUsecase) *CartUsecase {
	return &CartUsecase{catalog: catalog}
}

func (u *CartUsecase) View(c *cart.Cart) CartView {
	items := c.Entries()
	var total int64
	for _, e := range items {
		total += e.Product.Price
	}
	return CartView{Items: items, Count: len(items), Total: total}
}

// Add は商品IDでカートに入れる。未ログインならカートは変えずに ErrLoginRequired。
func (u *CartUsecase) Add(ctx context.Context, sess cart.Session, c *cart.Cart, productID string) (CartView, error) {
	if sess == nil || !sess.Authenticated() {
		return u.View(c), apperr.ErrLoginRequired
	}
	p, err := u.catalog.GetProduct(ctx, productID)
	if err != nil {
		return u.View(c), err
	}
	if _, err := c.Add(sess, p); err != nil {
		return u.View(c), err
	}
	return u.View(c), nil
}

// 明細IDで削除。無ければ ErrNotFound。
func (u *CartUsecase) Remove(c *cart.Cart, lineID string) (CartView, error) {
	if !c.Remove(lineID) {
		return u.View(c), apperr.ErrNotFound
	}
	return u.View(c), nil
}
