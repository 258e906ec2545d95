package usecase_test

import (
	"context"
	"time"

	"pickleshop/internal/domain/model"
	repo "pickleshop/internal/repository"

	"github.com/stretchr/testify/mock"
)

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) UpsertMerge(ctx context.Context, p model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, o model.Order) (model.Order, error) {
	args := m.Called(ctx, o)
	out, _ := args.Get(0).(model.Order)
	return out, args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, id string) (model.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID string) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

func (m *OrderRepoMock) ListAll(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Create(ctx context.Context, u model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *UserRepoMock) UpdateProfile(ctx context.Context, id, name, photo string) error {
	return m.Called(ctx, id, name, photo).Error(0)
}

func (m *UserRepoMock) UpdateStatus(ctx context.Context, id string, status model.UserStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *UserRepoMock) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.User)
	return items, args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, q repo.AuditLogQuery) ([]model.AuditLog, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.AuditLog)
	return items, args.Error(1)
}

func (m *AuditRepoMock) Count(ctx context.Context, rt model.AuditResourceType) (int, error) {
	args := m.Called(ctx, rt)
	return args.Int(0), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, key string, payload any) error {
	return m.Called(ctx, key, payload).Error(0)
}

type fixedID string

func (f fixedID) NewID() string { return string(f) }

type fixedClock time.Time

func (f fixedClock) Now() time.Time { return time.Time(f) }

// ログイン中だけ true
type sessionStub bool

func (s sessionStub) Authenticated() bool { return bool(s) }
