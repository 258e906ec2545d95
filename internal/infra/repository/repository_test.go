package repository

import (
	"context"
	"testing"
	"time"

	"pickleshop/internal/domain/model"
	"pickleshop/internal/infra/db"
	repo "pickleshop/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func TestProductRepository_UpsertMerge(t *testing.T) {
	ctx := context.Background()
	r := NewProductGormRepository(openDB(t))

	// 無ければ作る
	require.NoError(t, r.UpsertMerge(ctx, model.Product{ID: "3", Name: "Paddle", Category: model.CategoryPaddles, Price: 100, NumericID: 3}))
	got, err := r.FindByID(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.Price)
	assert.Equal(t, int64(3), got.NumericID)

	// あれば上書き（numeric_idはそのまま）
	require.NoError(t, r.UpsertMerge(ctx, model.Product{ID: "3", Name: "Paddle v2", Category: model.CategoryPaddles, Price: 120, NumericID: 999}))
	got, err = r.FindByID(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "Paddle v2", got.Name)
	assert.Equal(t, int64(120), got.Price)
	assert.Equal(t, int64(3), got.NumericID)
}

func TestProductRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	r := NewProductGormRepository(openDB(t))

	for _, p := range []model.Product{
		{ID: "a", Name: "A", Category: model.CategoryBalls, NumericID: 1},
		{ID: "c", Name: "C", Category: model.CategoryBalls, NumericID: 3},
		{ID: "b", Name: "B", Category: model.CategoryBalls, NumericID: 2},
	} {
		_, err := r.Create(ctx, p)
		require.NoError(t, err)
	}

	items, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{items[0].ID, items[1].ID, items[2].ID})

	_, err = r.FindByID(ctx, "zzz")
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "zzz"), repo.ErrNotFound)
	require.NoError(t, r.Delete(ctx, "a"))
}

func TestOrderRepository(t *testing.T) {
	ctx := context.Background()
	gdb := openDB(t)
	r := NewOrderGormRepository(gdb)

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"o1", "o2", "o3"} {
		userID := "u1"
		if id == "o2" {
			userID = "u2"
		}
		_, err := r.Create(ctx, model.Order{
			ID:        id,
			UserID:    userID,
			Customer:  model.CustomerInfo{Name: "Ann", Phone: "1", Address: "x"},
			Items:     []model.OrderItem{{LineID: "l" + id, ProductID: "1", Price: 100}},
			Total:     100,
			Status:    model.OrderStatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	mine, err := r.ListByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "o3", mine[0].ID)
	require.Len(t, mine[0].Items, 1)
	assert.Equal(t, int64(100), mine[0].Items[0].Price)

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, r.UpdateStatus(ctx, "o1", model.OrderStatusAccepted))
	o, err := r.FindByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusAccepted, o.Status)
	assert.Equal(t, "Ann", o.Customer.Name)

	assert.ErrorIs(t, r.UpdateStatus(ctx, "missing", model.OrderStatusAccepted), repo.ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	r := NewUserGormRepository(openDB(t))

	require.NoError(t, r.Create(ctx, model.User{ID: "u1", Email: "ann@example.com", Role: model.RoleUser, Status: model.UserStatusActive}))
	require.NoError(t, r.UpdateProfile(ctx, "u1", "Ann", "https://img/ann.png"))
	require.NoError(t, r.UpdateStatus(ctx, "u1", model.UserStatusBlocked))

	u, err := r.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.DisplayName)
	assert.True(t, u.IsBlocked())

	_, err = r.FindByID(ctx, "nobody")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	users, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestCredentialRepository(t *testing.T) {
	ctx := context.Background()
	r := NewCredentialRepository(openDB(t))

	c := &model.Credential{UID: "u1", Email: " Ann@Example.com ", Provider: model.ProviderGoogle, ProviderSubject: "g-1"}
	require.NoError(t, r.Create(ctx, c))
	assert.Equal(t, "ann@example.com", c.Email)

	err := r.Create(ctx, &model.Credential{UID: "u2", Email: "ann@example.com", Provider: model.ProviderPassword})
	assert.ErrorIs(t, err, repo.ErrDuplicateEmail)

	got, err := r.FindByProviderSubject(ctx, model.ProviderGoogle, "g-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UID)

	_, err = r.FindByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, repo.ErrCredentialNotFound)

	require.NoError(t, r.TouchLogin(ctx, "u1"))
	got, err = r.FindByUID(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, got.LastLoginAt)
	assert.ErrorIs(t, r.TouchLogin(ctx, "nobody"), repo.ErrCredentialNotFound)
}

func TestAuditLogRepository(t *testing.T) {
	ctx := context.Background()
	r := NewAuditLogGormRepository(openDB(t))

	for _, rt := range []model.AuditResourceType{model.AuditResourceOrder, model.AuditResourceUser, model.AuditResourceOrder} {
		require.NoError(t, r.Create(ctx, model.AuditLog{
			ActorUserID: "admin", Action: model.AuditActionAcceptOrder, ResourceType: rt, ResourceID: "x",
		}))
	}

	logs, err := r.List(ctx, repo.AuditLogQuery{ResourceType: model.AuditResourceOrder, Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Greater(t, logs[0].ID, logs[1].ID)

	n, err := r.Count(ctx, model.AuditResourceOrder)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = r.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// 2ページ目（1件ずつ）
	page2, err := r.List(ctx, repo.AuditLogQuery{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	all, err := r.List(ctx, repo.AuditLogQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, all[1].ID, page2[0].ID)
}
