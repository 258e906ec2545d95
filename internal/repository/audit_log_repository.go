package repository

import (
	"context"

	"pickleshop/internal/domain/model"
)

// 管理画面の監査ログ一覧の1ページ分。ResourceType が空なら全種類。
type AuditLogQuery struct {
	ResourceType model.AuditResourceType
	Offset       int
	Limit        int
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error

	// 新しい順
	List(ctx context.Context, q AuditLogQuery) ([]model.AuditLog, error)
	Count(ctx context.Context, resourceType model.AuditResourceType) (int, error)
}
