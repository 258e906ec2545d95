package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"pickleshop/internal/domain/apperr"
	"pickleshop/internal/domain/model"
	"pickleshop/internal/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminEmail = "admin@pickleball.com"

func newTestManager(t *testing.T, auth *fakeAuth, users *memUsers) *Manager {
	t.Helper()
	m := NewManager(context.Background(), auth, users, Options{BootstrapAdminEmail: adminEmail})
	t.Cleanup(m.Close)
	return m
}

func waitReady(t *testing.T, m *Manager) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.WaitReady(ctx))
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name string
		user *model.User
		want bool
	}{
		{"no user", nil, false},
		{"admin role", &model.User{Email: "boss@example.com", Role: model.RoleAdmin}, true},
		{"bootstrap email with user role", &model.User{Email: "Admin@Pickleball.com", Role: model.RoleUser}, true},
		{"plain user", &model.User{Email: "ann@example.com", Role: model.RoleUser}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authorize(tt.user, adminEmail))
		})
	}
}

func TestStartsAnonymous(t *testing.T) {
	m := newTestManager(t, newFakeAuth(), newMemUsers())
	waitReady(t, m)

	s := m.Snapshot()
	assert.Equal(t, StateAnonymous, s.State)
	assert.False(t, s.Loading)
	assert.Nil(t, s.User)
	assert.False(t, s.IsAdmin)
	assert.False(t, s.Authenticated())
}

func TestLoginCreatesProfile(t *testing.T) {
	auth := newFakeAuth()
	users := newMemUsers()
	auth.addAccount("u1", "ann@example.com")
	auth.addAccount("u2", adminEmail)
	m := newTestManager(t, auth, users)
	waitReady(t, m)

	require.NoError(t, m.Login(context.Background(), "ann@example.com", "pw"))
	s := m.Snapshot()
	require.True(t, s.Authenticated())
	assert.False(t, s.IsAdmin)
	stored, ok := users.get("u1")
	require.True(t, ok)
	assert.Equal(t, model.RoleUser, stored.Role)
	assert.Equal(t, model.UserStatusActive, stored.Status)

	require.NoError(t, m.Logout(context.Background()))
	s = m.Snapshot()
	assert.Equal(t, StateAnonymous, s.State)
	assert.Nil(t, s.User)

	require.NoError(t, m.Login(context.Background(), adminEmail, "pw"))
	s = m.Snapshot()
	assert.True(t, s.IsAdmin)
	stored, _ = users.get("u2")
	assert.Equal(t, model.RoleAdmin, stored.Role)
}

func TestIsAdminByStoredRoleOrEmail(t *testing.T) {
	auth := newFakeAuth()
	users := newMemUsers()
	auth.addAccount("boss", "boss@example.com")
	auth.addAccount("root", adminEmail)
	users.put(model.User{ID: "boss", Email: "boss@example.com", Role: model.RoleAdmin, Status: model.UserStatusActive})
	users.put(model.User{ID: "root", Email: adminEmail, Role: model.RoleUser, Status: model.UserStatusActive})
	m := newTestManager(t, auth, users)
	waitReady(t, m)

	require.NoError(t, m.Login(context.Background(), "boss@example.com", "pw"))
	assert.True(t, m.Snapshot().IsAdmin)

	require.NoError(t, m.Login(context.Background(), adminEmail, "pw"))
	assert.True(t, m.Snapshot().IsAdmin)
}

func TestBlockedUserIsSignedOut(t *testing.T) {
	auth := newFakeAuth()
	users := newMemUsers()
	auth.addAccount("u1", "ann@example.com")
	users.put(model.User{ID: "u1", Email: "ann@example.com", Role: model.RoleUser, Status: model.UserStatusBlocked})
	m := newTestManager(t, auth, users)
	waitReady(t, m)

	err := m.Login(context.Background(), "ann@example.com", "pw")
	assert.ErrorIs(t, err, apperr.ErrAccountBlocked)

	s := m.Snapshot()
	assert.Nil(t, s.User)
	assert.True(t, s.Blocked)
	assert.False(t, s.Authenticated())
	assert.False(t, s.IsAdmin)

	require.Eventually(t, func() bool { return auth.currentUser() == nil }, time.Second, 5*time.Millisecond)
	// サインアウトの通知後も blocked は残る
	require.Eventually(t, func() bool {
		s := m.Snapshot()
		return s.State == StateAnonymous && !s.Loading
	}, time.Second, 5*time.Millisecond)
	assert.True(t, m.Snapshot().Blocked)
}

func TestRevalidate_BlockedWhileSignedIn(t *testing.T) {
	auth := newFakeAuth()
	users := newMemUsers()
	auth.addAccount("u1", "ann@example.com")
	m := newTestManager(t, auth, users)
	waitReady(t, m)

	require.NoError(t, m.Login(context.Background(), "ann@example.com", "pw"))
	require.NoError(t, m.Revalidate(context.Background()))
	require.True(t, m.Snapshot().Authenticated())

	require.NoError(t, users.UpdateStatus(context.Background(), "u1", model.UserStatusBlocked))
	err := m.Revalidate(context.Background())
	assert.ErrorIs(t, err, apperr.ErrAccountBlocked)

	s := m.Snapshot()
	assert.False(t, s.Authenticated())
	assert.Equal(t, StateAnonymous, s.State)
	assert.True(t, s.Blocked)
	assert.Nil(t, auth.currentUser())

	// サインアウト後は何もしない
	assert.NoError(t, m.Revalidate(context.Background()))
}

func TestRevalidate_PicksUpRoleChange(t *testing.T) {
	auth := newFakeAuth()
	users := newMemUsers()
	auth.addAccount("boss", "boss@example.com")
	users.put(model.User{ID: "boss", Email: "boss@example.com", Role: model.RoleAdmin, Status: model.UserStatusActive})
	m := newTestManager(t, auth, users)
	waitReady(t, m)

	require.NoError(t, m.Login(context.Background(), "boss@example.com", "pw"))
	require.True(t, m.Snapshot().IsAdmin)

	users.put(model.User{ID: "boss", Email: "boss@example.com", Role: model.RoleUser, Status: model.UserStatusActive})
	require.NoError(t, m.Revalidate(context.Background()))
	s := m.Snapshot()
	assert.True(t, s.Authenticated())
	assert.False(t, s.IsAdmin)
}

func TestRevalidate_StoreFailureKeepsSession(t *testing.T) {
	auth := newFakeAuth()
	users := newMemUsers()
	auth.addAccount("u1", "ann@example.com")
	m := newTestManager(t, auth, users)
	waitReady(t, m)
	require.NoError(t, m.Login(context.Background(), "ann@example.com", "pw"))

	users.mu.Lock()
	users.findErr = errors.New("db down")
	users.mu.Unlock()

	assert.Error(t, m.Revalidate(context.Background()))
	assert.True(t, m.Snapshot().Authenticated())
}

func TestProfileStoreFailureKeepsSession(t *testing.T) {
	auth := newFakeAuth()
	users := newMemUsers()
	users.findErr = errors.New("connection refused")
	auth.addAccount("u1", "ann@example.com")
	m := newTestManager(t, auth, users)
	waitReady(t, m)

	require.NoError(t, m.Login(context.Background(), "ann@example.com", "pw"))
	s := m.Snapshot()
	require.True(t, s.Authenticated())
	assert.Equal(t, "u1", s.User.ID)
	assert.Equal(t, model.RoleUser, s.User.Role)
}

func TestProfileSyncsDisplayName(t *testing.T) {
	auth := newFakeAuth()
	users := newMemUsers()
	users.put(model.User{ID: "g1", Email: "ann@example.com", DisplayName: "old", Role: model.RoleUser, Status: model.UserStatusActive})
	auth.popupIdent = &identity.Identity{UID: "g1", Email: "ann@example.com", DisplayName: "Ann", PhotoURL: "https://img/ann.png", Provider: model.ProviderGoogle}
	m := newTestManager(t, auth, users)
	waitReady(t, m)

	url, err := m.LoginWithFederatedProvider(context.Background(), model.ProviderGoogle, identity.Popup{AccessToken: "tok"})
	require.NoError(t, err)
	assert.Empty(t, url)

	s := m.Snapshot()
	require.NotNil(t, s.User)
	assert.Equal(t, "Ann", s.User.DisplayName)
	stored, _ := users.get("g1")
	assert.Equal(t, "https://img/ann.png", stored.PhotoURL)
	assert.Equal(t, 1, users.updates)
}

func TestPopupBlockedFallsBackToRedirect(t *testing.T) {
	auth := newFakeAuth()
	auth.popupErr = apperr.NewAuthError(apperr.AuthPopupBlocked, "")
	m := newTestManager(t, auth, newMemUsers())
	waitReady(t, m)

	url, err := m.LoginWithFederatedProvider(context.Background(), model.ProviderGoogle, identity.Popup{Blocked: true})
	require.NoError(t, err)
	assert.Equal(t, "https://idp.example/google.com", url)

	s := m.Snapshot()
	assert.Equal(t, StatePendingRedirect, s.State)
	assert.Equal(t, url, s.RedirectURL)
}

func TestPopupOtherErrorsAreReturned(t *testing.T) {
	auth := newFakeAuth()
	auth.popupErr = apperr.NewAuthError(apperr.AuthCredentialAlreadyInUse, "")
	m := newTestManager(t, auth, newMemUsers())
	waitReady(t, m)

	_, err := m.LoginWithFederatedProvider(context.Background(), model.ProviderFacebook, identity.Popup{AccessToken: "tok"})
	assert.True(t, apperr.IsAuthCode(err, apperr.AuthCredentialAlreadyInUse))
	assert.Equal(t, StateAnonymous, m.Snapshot().State)
}

func TestPendingRedirectResultSignsIn(t *testing.T) {
	auth := newFakeAuth()
	auth.redirect = &identity.Identity{UID: "g1", Email: "ann@example.com", Provider: model.ProviderGoogle}
	m := newTestManager(t, auth, newMemUsers())
	waitReady(t, m)

	s := m.Snapshot()
	assert.True(t, s.Authenticated())
	assert.Equal(t, "g1", s.User.ID)
}

func TestLoadingWaitsForRedirectCheck(t *testing.T) {
	auth := newFakeAuth()
	auth.gate = make(chan struct{})
	auth.redirect = &identity.Identity{UID: "g1", Email: "ann@example.com", Provider: model.ProviderGoogle}
	m := newTestManager(t, auth, newMemUsers())

	// 最初の通知（未ログイン）が来ても redirect確認が終わるまでは loading のまま
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, m.WaitReady(ctx), context.DeadlineExceeded)
	assert.True(t, m.Snapshot().Loading)

	close(auth.gate)
	waitReady(t, m)
	s := m.Snapshot()
	assert.False(t, s.Loading)
	assert.True(t, s.Authenticated())
}

func TestRedirectErrorIsSurfaced(t *testing.T) {
	auth := newFakeAuth()
	auth.redirectErr = apperr.NewAuthError(apperr.AuthCredentialAlreadyInUse, "")
	m := newTestManager(t, auth, newMemUsers())
	waitReady(t, m)

	s := m.Snapshot()
	assert.Equal(t, StateAnonymous, s.State)
	assert.Contains(t, s.RedirectError, string(apperr.AuthCredentialAlreadyInUse))
}

func TestCloseStopsUpdates(t *testing.T) {
	auth := newFakeAuth()
	auth.addAccount("u1", "ann@example.com")
	m := NewManager(context.Background(), auth, newMemUsers(), Options{BootstrapAdminEmail: adminEmail})
	waitReady(t, m)

	m.Close()
	assert.True(t, auth.isClosed())

	err := m.Login(context.Background(), "ann@example.com", "pw")
	assert.ErrorIs(t, err, ErrClosed)
	assert.Nil(t, m.Snapshot().User)
}
