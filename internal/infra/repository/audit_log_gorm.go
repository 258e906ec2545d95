package repository

import (
	"context"
	"time"

	"pickleshop/internal/domain/model"
	repo "pickleshop/internal/repository"

	"gorm.io/gorm"
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

// 管理者の操作を1件追記する（更新・削除はしない）
func (r *auditLogGormRepository) Create(ctx context.Context, entry model.AuditLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return translate(r.db.WithContext(ctx).Create(&entry).Error)
}

func (r *auditLogGormRepository) byResource(ctx context.Context, rt model.AuditResourceType) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.AuditLog{})
	if rt != "" {
		q = q.Where("resource_type = ?", rt)
	}
	return q
}

func (r *auditLogGormRepository) List(ctx context.Context, q repo.AuditLogQuery) ([]model.AuditLog, error) {
	if q.Limit <= 0 {
		return []model.AuditLog{}, nil
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	var logs []model.AuditLog
	err := r.byResource(ctx, q.ResourceType).
		Order("id DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&logs).Error
	if err != nil {
		return nil, translate(err)
	}
	return logs, nil
}

func (r *auditLogGormRepository) Count(ctx context.Context, rt model.AuditResourceType) (int, error) {
	var n int64
	if err := r.byResource(ctx, rt).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return int(n), nil
}
