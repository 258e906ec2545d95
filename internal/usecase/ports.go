package usecase

import (
	"context"
	"errors"
	"time"

	"pickleshop/internal/domain/apperr"
	repo "pickleshop/internal/repository"

	"github.com/google/uuid"
)

// ID生成
type IDGenerator interface {
	NewID() string
}

// 現在時刻
type Clock interface {
	Now() time.Time
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ドメインイベントの送信先（RabbitMQなど）
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

const (
	EventOrderPlaced   = "order.placed"
	EventOrderAccepted = "order.accepted"
)

// 注文イベントの中身
type OrderEvent struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	UserEmail string    `json:"user_email"`
	Total     int64     `json:"total"`
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
}

// ストアのエラーを apperr に寄せる
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrPermissionDenied):
		return apperr.ErrPermissionDenied
	case errors.Is(err, repo.ErrNotFound):
		return apperr.ErrNotFound
	default:
		return apperr.Fail(op, err)
	}
}
