package session

import (
	"context"
	"sync"

	"pickleshop/internal/domain/apperr"
	"pickleshop/internal/domain/model"
	"pickleshop/internal/identity"
	"pickleshop/internal/repository"
)

// 通知を別goroutineで順番に配るAuthenticator
type fakeAuth struct {
	mu       sync.Mutex
	seq      uint64
	current  *identity.Identity
	listener identity.Listener
	events   chan identity.Event
	done     chan struct{}
	closed   bool

	accounts    map[string]identity.Identity
	popupErr    error
	popupIdent  *identity.Identity
	redirect    *identity.Identity
	redirectErr error
	gate        chan struct{}
	persistence identity.Persistence
}

func newFakeAuth() *fakeAuth {
	f := &fakeAuth{
		events:      make(chan identity.Event, 64),
		done:        make(chan struct{}),
		accounts:    map[string]identity.Identity{},
		persistence: identity.PersistenceLocal,
	}
	go f.run()
	return f
}

func (f *fakeAuth) addAccount(uid, email string) identity.Identity {
	ident := identity.Identity{UID: uid, Email: email, Provider: model.ProviderPassword}
	f.mu.Lock()
	f.accounts[email] = ident
	f.mu.Unlock()
	return ident
}

func (f *fakeAuth) run() {
	for {
		select {
		case ev := <-f.events:
			f.mu.Lock()
			l := f.listener
			f.mu.Unlock()
			if l != nil {
				l(ev)
			}
		case <-f.done:
			return
		}
	}
}

func (f *fakeAuth) emit(ident *identity.Identity) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.current = ident
	f.events <- identity.Event{Seq: f.seq, User: ident}
	return f.seq
}

func (f *fakeAuth) currentUser() *identity.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeAuth) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeAuth) OnAuthStateChanged(fn identity.Listener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listener = fn
	f.events <- identity.Event{Seq: f.seq, User: f.current}
	return func() {
		f.mu.Lock()
		f.listener = nil
		f.mu.Unlock()
	}
}

func (f *fakeAuth) SignInWithPassword(_ context.Context, email, _ string) (uint64, error) {
	f.mu.Lock()
	ident, ok := f.accounts[email]
	f.mu.Unlock()
	if !ok {
		return 0, apperr.NewAuthError(apperr.AuthUserNotFound, "")
	}
	return f.emit(&ident), nil
}

func (f *fakeAuth) CreateUserWithPassword(_ context.Context, email, _ string) (uint64, error) {
	ident := f.addAccount("uid-"+email, email)
	return f.emit(&ident), nil
}

func (f *fakeAuth) SignInWithPopup(_ context.Context, _ model.AuthProvider, _ identity.Popup) (uint64, error) {
	if f.popupErr != nil {
		return 0, f.popupErr
	}
	return f.emit(f.popupIdent), nil
}

func (f *fakeAuth) SignInWithRedirect(_ context.Context, kind model.AuthProvider) (string, error) {
	return "https://idp.example/" + string(kind), nil
}

func (f *fakeAuth) GetRedirectResult(ctx context.Context) (*identity.Identity, uint64, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		}
	}
	if f.redirectErr != nil {
		return nil, 0, f.redirectErr
	}
	if f.redirect == nil {
		return nil, 0, nil
	}
	return f.redirect, f.emit(f.redirect), nil
}

func (f *fakeAuth) SignOut() uint64 { return f.emit(nil) }

func (f *fakeAuth) SetPersistence(p identity.Persistence) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.persistence = p
	return nil
}

func (f *fakeAuth) Token() (string, identity.Persistence) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return "", f.persistence
	}
	return "token-" + f.current.UID, f.persistence
}

func (f *fakeAuth) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.done)
	}
}

// usersのメモリ実装
type memUsers struct {
	mu      sync.Mutex
	m       map[string]model.User
	findErr error
	updates int
}

func newMemUsers() *memUsers {
	return &memUsers{m: map[string]model.User{}}
}

func (r *memUsers) put(u model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[u.ID] = u
}

func (r *memUsers) get(id string) (model.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.m[id]
	return u, ok
}

func (r *memUsers) FindByID(_ context.Context, id string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return model.User{}, r.findErr
	}
	u, ok := r.m[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (r *memUsers) Create(_ context.Context, u model.User) error {
	r.put(u)
	return nil
}

func (r *memUsers) UpdateProfile(_ context.Context, id, name, photo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.m[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.DisplayName, u.PhotoURL = name, photo
	r.m[id] = u
	r.updates++
	return nil
}

func (r *memUsers) UpdateStatus(_ context.Context, id string, s model.UserStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.m[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Status = s
	r.m[id] = u
	return nil
}

func (r *memUsers) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.User, 0, len(r.m))
	for _, u := range r.m {
		out = append(out, u)
	}
	return out, nil
}
