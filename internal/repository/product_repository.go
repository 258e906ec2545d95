package repository

import (
	"context"
	"errors"

	"pickleshop/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")

	// DBの権限で拒否された（SQLSTATE 42501 など）
	ErrPermissionDenied = errors.New("permission denied")
)

// productsコレクションの保存・取得
type ProductRepository interface {
	// 全件（numeric_id desc）
	List(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	// 無ければ作る。あれば渡したフィールドだけ上書き。
	UpsertMerge(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id string) error
}
