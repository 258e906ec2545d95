package repository

import (
	"errors"

	repo "pickleshop/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// postgres: insufficient_privilege
const pgInsufficientPrivilege = "42501"

// DBのエラーをrepositoryのエラーにそろえる
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInsufficientPrivilege {
		return repo.ErrPermissionDenied
	}
	return err
}
