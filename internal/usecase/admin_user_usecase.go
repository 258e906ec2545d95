package usecase

import (
	"context"
	"log/slog"
	"strings"

	"pickleshop/internal/domain/apperr"
	"pickleshop/internal/domain/model"
	"pickleshop/internal/pagination"
	repo "pickleshop/internal/repository"
)

type AdminUserUsecase struct {
	users          repo.UserRepository
	audits         repo.AuditLogRepository
	bootstrapAdmin string
	log            *slog.Logger
}

func NewAdminUserUsecase(users repo.UserRepository, audits repo.AuditLogRepository, bootstrapAdminEmail string, log *slog.Logger) *AdminUserUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &AdminUserUsecase{
		users:          users,
		audits:         audits,
		bootstrapAdmin: strings.ToLower(strings.TrimSpace(bootstrapAdminEmail)),
		log:            log,
	}
}

// 並び順なし
func (u *AdminUserUsecase) List(ctx context.Context, page int) (pagination.Page[model.User], error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return pagination.Page[model.User]{}, storeErr("list users", err)
	}
	return pagination.Paginate(users, page, AdminPageSize), nil
}

// ToggleBlock は active と blocked を入れ替える。
// 最初の管理者と自分自身は変更できない。
func (u *AdminUserUsecase) ToggleBlock(ctx context.Context, actor model.User, userID string) (model.User, error) {
	if userID == actor.ID {
		return model.User{}, apperr.ErrPermissionDenied
	}

	target, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, storeErr("toggle block", err)
	}
	if u.bootstrapAdmin != "" && strings.EqualFold(strings.TrimSpace(target.Email), u.bootstrapAdmin) {
		return model.User{}, apperr.ErrPermissionDenied
	}

	before := target.Status
	next := model.UserStatusBlocked
	if target.IsBlocked() {
		next = model.UserStatusActive
	}
	if err := u.users.UpdateStatus(ctx, userID, next); err != nil {
		return model.User{}, storeErr("toggle block", err)
	}
	target.Status = next

	writeAudit(ctx, u.audits, u.log, actor.ID,
		model.AuditActionToggleUserStatus, model.AuditResourceUser, userID,
		map[string]string{"status": string(before)},
		map[string]string{"status": string(next)},
	)
	return target, nil
}
