package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"pickleshop/internal/domain/model"
	"pickleshop/internal/pagination"
	repo "pickleshop/internal/repository"
)

// 監査ログを残す。失敗しても操作自体は取り消さない。
func writeAudit(
	ctx context.Context,
	audits repo.AuditLogRepository,
	log *slog.Logger,
	actorID string,
	action model.AuditAction,
	resource model.AuditResourceType,
	resourceID string,
	before, after any,
) {
	entry := model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
	}
	if err := audits.Create(ctx, entry); err != nil {
		log.WarnContext(ctx, "write audit log",
			slog.String("action", string(action)),
			slog.String("resource_id", resourceID),
			slog.Any("err", err))
	}
}

func toJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

type AuditLogUsecase struct {
	audits repo.AuditLogRepository
}

func NewAuditLogUsecase(audits repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{audits: audits}
}

// GET /admin/audit-logs（新しい順）
// 件数を先に数え、範囲外のページは端に寄せてからその1ページだけ読む。
func (u *AuditLogUsecase) List(ctx context.Context, resourceType string, page int) (pagination.Page[model.AuditLog], error) {
	rt := model.AuditResourceType(resourceType)
	switch rt {
	case "", model.AuditResourceProduct, model.AuditResourceOrder, model.AuditResourceUser:
	default:
		return pagination.Page[model.AuditLog]{}, NewHTTPError(http.StatusBadRequest, "invalid resource_type")
	}

	total, err := u.audits.Count(ctx, rt)
	if err != nil {
		return pagination.Page[model.AuditLog]{}, storeErr("count audit logs", err)
	}
	page = pagination.Clamp(page, pagination.TotalPages(total, AdminPageSize))

	logs, err := u.audits.List(ctx, repo.AuditLogQuery{
		ResourceType: rt,
		Offset:       (page - 1) * AdminPageSize,
		Limit:        AdminPageSize,
	})
	if err != nil {
		return pagination.Page[model.AuditLog]{}, storeErr("list audit logs", err)
	}
	return pagination.Of(logs, page, AdminPageSize, total), nil
}
