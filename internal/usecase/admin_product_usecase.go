package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"pickleshop/internal/domain/apperr"
	"pickleshop/internal/domain/model"
	"pickleshop/internal/pagination"
	repo "pickleshop/internal/repository"
)

// 管理画面の商品フォーム
type ProductInput struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Brand       string `json:"brand"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

type AdminProductUsecase struct {
	catalog   *CatalogUsecase
	products  repo.ProductRepository
	audits    repo.AuditLogRepository
	validator ProductValidator
	idGen     IDGenerator
	clock     Clock
	log       *slog.Logger
}

func NewAdminProductUsecase(
	catalog *CatalogUsecase,
	products repo.ProductRepository,
	audits repo.AuditLogRepository,
	validator ProductValidator,
	idGen IDGenerator,
	clock Clock,
	log *slog.Logger,
) *AdminProductUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &AdminProductUsecase{
		catalog:   catalog,
		products:  products,
		audits:    audits,
		validator: validator,
		idGen:     idGen,
		clock:     clock,
		log:       log,
	}
}

func normalizeProductInput(in ProductInput) ProductInput {
	return ProductInput{
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Brand:       strings.TrimSpace(in.Brand),
		Price:       in.Price,
		Image:       strings.TrimSpace(in.Image),
		Description: strings.TrimSpace(in.Description),
	}
}

// 静的一覧も含めた商品
func (u *AdminProductUsecase) List(ctx context.Context, page int) pagination.Page[model.Product] {
	return pagination.Paginate(u.catalog.AllProducts(ctx), page, AdminPageSize)
}

func (u *AdminProductUsecase) Create(ctx context.Context, actor model.User, in ProductInput) (model.Product, error) {
	in = normalizeProductInput(in)
	if err := u.validator.ValidateProduct(in); err != nil {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := u.products.Create(ctx, model.Product{
		ID:          u.idGen.NewID(),
		Name:        in.Name,
		Category:    model.Category(in.Category),
		Brand:       in.Brand,
		Price:       in.Price,
		Image:       in.Image,
		Description: in.Description,
		NumericID:   u.clock.Now().UnixMilli(),
	})
	if err != nil {
		return model.Product{}, storeErr("create product", err)
	}

	writeAudit(ctx, u.audits, u.log, actor.ID,
		model.AuditActionCreateProduct, model.AuditResourceProduct, created.ID, nil, created)
	return created, nil
}

// Update は無ければ作る（静的一覧だけにある商品を初めて保存する場合）
func (u *AdminProductUsecase) Update(ctx context.Context, actor model.User, id string, in ProductInput) (model.Product, error) {
	in = normalizeProductInput(in)
	if strings.TrimSpace(id) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := u.validator.ValidateProduct(in); err != nil {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var before *model.Product
	current, err := u.catalog.GetProduct(ctx, id)
	switch {
	case err == nil:
		before = &current
	case errors.Is(err, apperr.ErrNotFound):
	default:
		return model.Product{}, err
	}

	p := model.Product{
		ID:          id,
		Name:        in.Name,
		Category:    model.Category(in.Category),
		Brand:       in.Brand,
		Price:       in.Price,
		Image:       in.Image,
		Description: in.Description,
	}
	if before != nil {
		p.NumericID = before.NumericID
		p.CreatedAt = before.CreatedAt
	}
	if p.NumericID == 0 {
		p.NumericID = u.clock.Now().UnixMilli()
	}

	if err := u.products.UpsertMerge(ctx, p); err != nil {
		return model.Product{}, storeErr("update product", err)
	}

	writeAudit(ctx, u.audits, u.log, actor.ID,
		model.AuditActionUpdateProduct, model.AuditResourceProduct, id, before, p)
	return p, nil
}

func (u *AdminProductUsecase) Delete(ctx context.Context, actor model.User, id string) error {
	if err := u.products.Delete(ctx, id); err != nil {
		return storeErr("delete product", err)
	}
	writeAudit(ctx, u.audits, u.log, actor.ID,
		model.AuditActionDeleteProduct, model.AuditResourceProduct, id, map[string]string{"id": id}, nil)
	return nil
}
