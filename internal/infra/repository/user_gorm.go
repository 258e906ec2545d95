package repository

import (
	"context"

	"pickleshop/internal/domain/model"
	domainrepo "pickleshop/internal/repository"

	"gorm.io/gorm"
)

type userGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewUserGormRepository(db *gorm.DB) domainrepo.UserRepository {
	return &userGormRepository{db: db}
}

// IDでユーザーを1件取得
func (r *userGormRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		return model.User{}, translate(err)
	}
	return u, nil
}

// Create はユーザーを新規作成
func (r *userGormRepository) Create(ctx context.Context, user model.User) error {
	return translate(r.db.WithContext(ctx).Create(&user).Error)
}

func (r *userGormRepository) UpdateProfile(ctx context.Context, id string, displayName string, photoURL string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"display_name": displayName,
			"photo_url":    photoURL,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}

func (r *userGormRepository) UpdateStatus(ctx context.Context, id string, status model.UserStatus) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}

func (r *userGormRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return []model.User{}, translate(err)
	}
	return users, nil
}
