package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"pickleshop/internal/cart"
	"pickleshop/internal/domain/apperr"
	"pickleshop/internal/domain/model"
	"pickleshop/internal/metrics"
	"pickleshop/internal/pagination"
	repo "pickleshop/internal/repository"
)

// 注文履歴の1ページの件数
const MyOrdersPageSize = 5

// POST /checkout のフォーム
type CheckoutInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Note    string `json:"note"`
}

type OrderUsecase struct {
	orders    repo.OrderRepository
	validator CheckoutValidator
	events    EventPublisher
	idGen     IDGenerator
	log       *slog.Logger
}

func NewOrderUsecase(
	orders repo.OrderRepository,
	validator CheckoutValidator,
	events EventPublisher,
	idGen IDGenerator,
	log *slog.Logger,
) *OrderUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &OrderUsecase{orders: orders, validator: validator, events: events, idGen: idGen, log: log}
}

// PlaceOrder はカートの中身から pending の注文を作る。
// 成功したときだけ注文に入れた行をカートから消す。再試行はしない。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, user *model.User, c *cart.Cart, in CheckoutInput) (model.Order, error) {
	if user == nil {
		return model.Order{}, apperr.ErrLoginRequired
	}

	in = CheckoutInput{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
		Note:    strings.TrimSpace(in.Note),
	}
	if err := u.validator.ValidateCheckout(in); err != nil {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	contents := c.Snapshot()
	if len(contents.Items) == 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	created, err := u.orders.Create(ctx, model.Order{
		ID:        u.idGen.NewID(),
		UserID:    user.ID,
		UserEmail: user.Email,
		Customer: model.CustomerInfo{
			Name:    in.Name,
			Phone:   in.Phone,
			Address: in.Address,
			Note:    in.Note,
		},
		Items:  contents.Items,
		Total:  contents.Total,
		Status: model.OrderStatusPending,
	})
	if err != nil {
		u.log.ErrorContext(ctx, "place order", slog.String("uid", user.ID), slog.Any("err", err))
		return model.Order{}, storeErr("place order", err)
	}

	// 注文に入れた行だけ消す。保存中に追加された行は残す。
	c.RemoveLines(contents.LineIDs)
	metrics.OrdersPlaced.Inc()

	//イベント送信は失敗しても注文は成功
	if err := u.events.Publish(ctx, EventOrderPlaced, OrderEvent{
		OrderID:   created.ID,
		UserID:    created.UserID,
		UserEmail: created.UserEmail,
		Total:     created.Total,
		Status:    string(created.Status),
		At:        created.CreatedAt,
	}); err != nil {
		u.log.WarnContext(ctx, "publish order.placed", slog.String("order_id", created.ID), slog.Any("err", err))
	}

	return created, nil
}

// GET /my-orders（新しい順）
func (u *OrderUsecase) ListMyOrders(ctx context.Context, user *model.User, page int) (pagination.Page[model.Order], error) {
	if user == nil {
		return pagination.Page[model.Order]{}, apperr.ErrLoginRequired
	}
	orders, err := u.orders.ListByUserID(ctx, user.ID)
	if err != nil {
		return pagination.Page[model.Order]{}, storeErr("list my orders", err)
	}
	return pagination.Paginate(orders, page, MyOrdersPageSize), nil
}
