package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pickleshop/internal/catalog"
	"pickleshop/internal/domain/apperr"
	"pickleshop/internal/domain/model"
	"pickleshop/internal/pagination"
	repo "pickleshop/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 商品一覧の1ページの件数
const ProductPageSize = 9

type CatalogUsecase struct {
	products repo.ProductRepository
	log      *slog.Logger
}

// DI
func NewCatalogUsecase(products repo.ProductRepository, log *slog.Logger) *CatalogUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &CatalogUsecase{products: products, log: log}
}

// AllProducts はストアの全商品。空か失敗なら静的一覧。
func (u *CatalogUsecase) AllProducts(ctx context.Context) []model.Product {
	items, err := u.products.List(ctx)
	if err != nil {
		u.log.WarnContext(ctx, "list products, using fallback", slog.Any("err", err))
		return catalog.Products()
	}
	if len(items) == 0 {
		return catalog.Products()
	}
	return items
}

// GET /products
func (u *CatalogUsecase) ListProducts(ctx context.Context, category string, page int) pagination.Page[model.Product] {
	items := catalog.FilterByCategory(u.AllProducts(ctx), category)
	return pagination.Paginate(items, page, ProductPageSize)
}

// GET /products/:id
func (u *CatalogUsecase) GetProduct(ctx context.Context, id string) (model.Product, error) {
	if id == "" {
		return model.Product{}, apperr.ErrNotFound
	}
	p, err := u.products.FindByID(ctx, id)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		u.log.WarnContext(ctx, "find product, using fallback", slog.String("id", id), slog.Any("err", err))
	}
	if fp, ok := catalog.Find(id); ok {
		return fp, nil
	}
	return model.Product{}, apperr.ErrNotFound
}

// カテゴリの一覧（先頭は "All"）
func (u *CatalogUsecase) Categories() []string {
	out := make([]string, 0, len(model.Categories)+1)
	out = append(out, catalog.AllCategories)
	for _, c := range model.Categories {
		out = append(out, string(c))
	}
	return out
}
