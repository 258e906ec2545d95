package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"pickleshop/internal/domain/model"
	repo "pickleshop/internal/repository"

	"gorm.io/gorm"
)

type credentialGormRepository struct {
	db *gorm.DB //DB接続（GORM）
}

// GORM実装
func NewCredentialRepository(db *gorm.DB) repo.CredentialRepository {
	return &credentialGormRepository{db: db}
}

// emailのunique違反はErrDuplicateEmailにする
func (r *credentialGormRepository) Create(ctx context.Context, c *model.Credential) error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	err := r.db.WithContext(ctx).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repo.ErrDuplicateEmail
	}
	return translate(err)
}

func (r *credentialGormRepository) FindByUID(ctx context.Context, uid string) (*model.Credential, error) {
	return r.first(ctx, "uid = ?", uid)
}

func (r *credentialGormRepository) FindByEmail(ctx context.Context, email string) (*model.Credential, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *credentialGormRepository) FindByProviderSubject(ctx context.Context, provider model.AuthProvider, subject string) (*model.Credential, error) {
	return r.first(ctx, "provider = ? AND provider_subject = ?", provider, subject)
}

// 最終ログイン時刻を更新
func (r *credentialGormRepository) TouchLogin(ctx context.Context, uid string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.Credential{}).
		Where("uid = ?", uid).
		Update("last_login_at", &now)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrCredentialNotFound
	}
	return nil
}

func (r *credentialGormRepository) first(ctx context.Context, query string, args ...interface{}) (*model.Credential, error) {
	var c model.Credential
	err := r.db.WithContext(ctx).Where(query, args...).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrCredentialNotFound
		}
		return nil, translate(err)
	}
	return &c, nil
}
