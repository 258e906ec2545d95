package repository

import (
	"context"
	"errors"

	"pickleshop/internal/domain/model"
)

var (
	ErrCredentialNotFound = errors.New("credential not found")
	ErrDuplicateEmail     = errors.New("duplicate email")
)

// identity providerのアカウント保存
type CredentialRepository interface {
	Create(ctx context.Context, c *model.Credential) error
	FindByUID(ctx context.Context, uid string) (*model.Credential, error)
	FindByEmail(ctx context.Context, email string) (*model.Credential, error)
	FindByProviderSubject(ctx context.Context, provider model.AuthProvider, subject string) (*model.Credential, error)
	TouchLogin(ctx context.Context, uid string) error
}
