package session

import (
	"context"

	"pickleshop/internal/domain/model"
	"pickleshop/internal/identity"
)

// cookie の無い閲覧用。サインインはできず、状態も変わらない。
type guestAuth struct{}

func (guestAuth) OnAuthStateChanged(fn identity.Listener) func() {
	fn(identity.Event{})
	return func() {}
}

func (guestAuth) SignInWithPassword(context.Context, string, string) (uint64, error) {
	return 0, ErrClosed
}

func (guestAuth) CreateUserWithPassword(context.Context, string, string) (uint64, error) {
	return 0, ErrClosed
}

func (guestAuth) SignInWithPopup(context.Context, model.AuthProvider, identity.Popup) (uint64, error) {
	return 0, ErrClosed
}

func (guestAuth) SignInWithRedirect(context.Context, model.AuthProvider) (string, error) {
	return "", ErrClosed
}

func (guestAuth) GetRedirectResult(context.Context) (*identity.Identity, uint64, error) {
	return nil, 0, nil
}

func (guestAuth) SignOut() uint64 { return 0 }

func (guestAuth) SetPersistence(identity.Persistence) error { return ErrClosed }

func (guestAuth) Token() (string, identity.Persistence) { return "", identity.PersistenceNone }

func (guestAuth) Close() {}
