package usecase

import (
	"context"
	"log/slog"

	"pickleshop/internal/domain/model"
	"pickleshop/internal/metrics"
	"pickleshop/internal/pagination"
	repo "pickleshop/internal/repository"
)

// 管理画面の1ページの件数
const AdminPageSize = 8

type AdminOrderUsecase struct {
	orders repo.OrderRepository
	audits repo.AuditLogRepository
	events EventPublisher
	log    *slog.Logger
}

func NewAdminOrderUsecase(orders repo.OrderRepository, audits repo.AuditLogRepository, events EventPublisher, log *slog.Logger) *AdminOrderUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &AdminOrderUsecase{orders: orders, audits: audits, events: events, log: log}
}

// 全注文（新しい順）
func (u *AdminOrderUsecase) List(ctx context.Context, page int) (pagination.Page[model.Order], error) {
	orders, err := u.orders.ListAll(ctx)
	if err != nil {
		return pagination.Page[model.Order]{}, storeErr("list orders", err)
	}
	return pagination.Paginate(orders, page, AdminPageSize), nil
}

// AcceptOrder は pending → accepted。承認済みなら何もしない。
func (u *AdminOrderUsecase) AcceptOrder(ctx context.Context, actor model.User, orderID string) (model.Order, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return model.Order{}, storeErr("accept order", err)
	}

	// すでに同じなら何もしない（200）
	if o.Status == model.OrderStatusAccepted {
		return o, nil
	}

	if err := u.orders.UpdateStatus(ctx, orderID, model.OrderStatusAccepted); err != nil {
		return model.Order{}, storeErr("accept order", err)
	}
	before := o.Status
	o.Status = model.OrderStatusAccepted

	writeAudit(ctx, u.audits, u.log, actor.ID,
		model.AuditActionAcceptOrder, model.AuditResourceOrder, orderID,
		map[string]string{"status": string(before)},
		map[string]string{"status": string(o.Status)},
	)
	metrics.OrdersAccepted.Inc()

	if err := u.events.Publish(ctx, EventOrderAccepted, OrderEvent{
		OrderID:   o.ID,
		UserID:    o.UserID,
		UserEmail: o.UserEmail,
		Total:     o.Total,
		Status:    string(o.Status),
		At:        o.CreatedAt,
	}); err != nil {
		u.log.WarnContext(ctx, "publish order.accepted", slog.String("order_id", o.ID), slog.Any("err", err))
	}
	return o, nil
}
