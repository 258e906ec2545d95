package repository

import (
	"context"

	"pickleshop/internal/domain/model"
)

// usersコレクションの保存・取得
type UserRepository interface {
	// 見つからなければ ErrNotFound
	FindByID(ctx context.Context, id string) (model.User, error)
	Create(ctx context.Context, user model.User) error
	// プロフィール項目（表示名・写真）の更新
	UpdateProfile(ctx context.Context, id string, displayName string, photoURL string) error
	UpdateStatus(ctx context.Context, id string, status model.UserStatus) error
	// 並び順なし
	List(ctx context.Context) ([]model.User, error)
}
