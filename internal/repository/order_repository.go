package repository

import (
	"context"

	"pickleshop/internal/domain/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (model.Order, error)
	FindByID(ctx context.Context, orderID string) (model.Order, error)

	// where user_id == ? order by created_at desc
	ListByUserID(ctx context.Context, userID string) ([]model.Order, error)

	// 管理者用 order by created_at desc
	ListAll(ctx context.Context) ([]model.Order, error)

	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
}
