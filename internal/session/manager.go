// Package session はクライアント1つ分のログイン状態を管理する。
// identityの変化を受けてプロフィールを同期し、権限とブロック状態を決める。
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"pickleshop/internal/domain/apperr"
	"pickleshop/internal/domain/model"
	"pickleshop/internal/identity"
	"pickleshop/internal/repository"
)

type State string

const (
	StateUninitialized   State = "uninitialized"
	StateChecking        State = "checking"
	StateAuthenticated   State = "authenticated"
	StateAnonymous       State = "anonymous"
	StatePendingRedirect State = "pending_redirect"
)

var ErrClosed = errors.New("session closed")

// identity.Auth のうちManagerが使う部分
type Authenticator interface {
	OnAuthStateChanged(fn identity.Listener) (unsubscribe func())
	SignInWithPassword(ctx context.Context, email, password string) (uint64, error)
	CreateUserWithPassword(ctx context.Context, email, password string) (uint64, error)
	SignInWithPopup(ctx context.Context, kind model.AuthProvider, popup identity.Popup) (uint64, error)
	SignInWithRedirect(ctx context.Context, kind model.AuthProvider) (string, error)
	GetRedirectResult(ctx context.Context) (*identity.Identity, uint64, error)
	SignOut() uint64
	SetPersistence(p identity.Persistence) error
	Token() (string, identity.Persistence)
	Close()
}

// ある時点の状態
type Snapshot struct {
	State         State       `json:"state"`
	Loading       bool        `json:"loading"`
	User          *model.User `json:"user"`
	IsAdmin       bool        `json:"is_admin"`
	Blocked       bool        `json:"blocked"`
	RedirectURL   string      `json:"redirect_url,omitempty"`
	RedirectError string      `json:"redirect_error,omitempty"`
}

func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}

type Options struct {
	// 最初の管理者のメールアドレス
	BootstrapAdminEmail string
	Logger              *slog.Logger
}

type Manager struct {
	auth       Authenticator
	users      repository.UserRepository
	adminEmail string
	log        *slog.Logger

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()

	mu            sync.Mutex
	state         State
	loading       bool
	user          *model.User
	isAdmin       bool
	blocked       bool
	redirectURL   string
	redirectErr   string
	processed     uint64
	initialSeen   bool
	redirectDone  bool
	redirectSeq   uint64
	outcomes      map[uint64]error
	changed       chan struct{}
	ready         chan struct{}
	readyReported bool
}

// NewManager は購読とredirect結果の確認を始める。
// ctxの値は引き継ぐが、キャンセルはClose()で行う。
func NewManager(ctx context.Context, auth Authenticator, users repository.UserRepository, opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	mctx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	m := &Manager{
		auth:       auth,
		users:      users,
		adminEmail: strings.ToLower(strings.TrimSpace(opts.BootstrapAdminEmail)),
		log:        log,
		ctx:        mctx,
		cancel:     cancel,
		state:      StateUninitialized,
		loading:    true,
		outcomes:   map[uint64]error{},
		changed:    make(chan struct{}),
		ready:      make(chan struct{}),
	}

	m.mu.Lock()
	m.state = StateChecking
	m.mu.Unlock()

	m.unsubscribe = auth.OnAuthStateChanged(m.handle)
	go m.checkRedirect()
	return m
}

// authorize が唯一の権限判定
func authorize(u *model.User, adminEmail string) bool {
	if u == nil {
		return false
	}
	if u.Role == model.RoleAdmin {
		return true
	}
	return adminEmail != "" && strings.EqualFold(strings.TrimSpace(u.Email), adminEmail)
}

func (m *Manager) handle(ev identity.Event) {
	if m.ctx.Err() != nil {
		return
	}

	m.mu.Lock()
	if ev.User != nil || m.state != StatePendingRedirect {
		m.state = StateChecking
	}
	m.loading = true
	m.notifyLocked()
	m.mu.Unlock()

	var (
		profile *model.User
		blocked bool
		outcome error
	)
	if ev.User != nil {
		profile, blocked = m.syncProfile(m.ctx, *ev.User)
		if blocked {
			// ブロック済みは強制ログアウト。次のイベントでAnonymousになる。
			m.auth.SignOut()
			profile = nil
			outcome = apperr.ErrAccountBlocked
			m.log.InfoContext(m.ctx, "blocked account signed out", slog.String("uid", ev.User.UID))
		}
	}

	if m.ctx.Err() != nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = profile
	m.isAdmin = authorize(profile, m.adminEmail)
	switch {
	case profile != nil:
		m.state = StateAuthenticated
		m.blocked = false
		m.redirectURL = ""
	case m.state == StatePendingRedirect:
	default:
		m.state = StateAnonymous
	}
	if blocked {
		m.blocked = true
	}
	if outcome != nil {
		m.outcomes[ev.Seq] = outcome
	}
	if ev.Seq > m.processed {
		m.processed = ev.Seq
	}
	m.initialSeen = true
	m.settleLocked()
	m.notifyLocked()
}

// プロフィールを読み、無ければ作る。blockedならtrue。
// ストアが失敗したらログだけ残してidentityから作った一時プロフィールで続ける。
func (m *Manager) syncProfile(ctx context.Context, ident identity.Identity) (*model.User, bool) {
	transient := model.User{
		ID:          ident.UID,
		Email:       ident.Email,
		DisplayName: ident.DisplayName,
		PhotoURL:    ident.PhotoURL,
		Role:        model.RoleUser,
		Status:      model.UserStatusActive,
	}

	u, err := m.users.FindByID(ctx, ident.UID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			m.log.ErrorContext(ctx, "load profile", slog.String("uid", ident.UID), slog.Any("err", err))
			return &transient, false
		}
		created := transient
		if m.adminEmail != "" && strings.EqualFold(ident.Email, m.adminEmail) {
			created.Role = model.RoleAdmin
		}
		if err := m.users.Create(ctx, created); err != nil {
			m.log.ErrorContext(ctx, "create profile", slog.String("uid", ident.UID), slog.Any("err", err))
		}
		return &created, false
	}

	if u.IsBlocked() {
		return nil, true
	}

	// 表示名と写真はidentity側に合わせる
	name, photo := u.DisplayName, u.PhotoURL
	if ident.DisplayName != "" {
		name = ident.DisplayName
	}
	if ident.PhotoURL != "" {
		photo = ident.PhotoURL
	}
	if name != u.DisplayName || photo != u.PhotoURL {
		if err := m.users.UpdateProfile(ctx, u.ID, name, photo); err != nil {
			m.log.WarnContext(ctx, "update profile", slog.String("uid", u.ID), slog.Any("err", err))
		} else {
			u.DisplayName, u.PhotoURL = name, photo
		}
	}
	if u.Email == "" {
		u.Email = ident.Email
	}
	return &u, false
}

func (m *Manager) checkRedirect() {
	_, seq, err := m.auth.GetRedirectResult(m.ctx)
	if m.ctx.Err() != nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.redirectDone = true
	if err != nil {
		m.log.WarnContext(m.ctx, "redirect result", slog.Any("err", err))
		m.redirectErr = err.Error()
		if m.state == StatePendingRedirect {
			m.state = StateAnonymous
		}
	}
	if seq > 0 {
		m.redirectSeq = seq
	}
	m.settleLocked()
	m.notifyLocked()
}

// 初回の判定（redirect結果を含む）が済んだらloadingを下ろす
func (m *Manager) settleLocked() {
	if !m.initialSeen || !m.redirectDone || m.processed < m.redirectSeq {
		m.loading = true
		return
	}
	m.loading = false
	if !m.readyReported {
		m.readyReported = true
		close(m.ready)
	}
}

func (m *Manager) notifyLocked() {
	close(m.changed)
	m.changed = make(chan struct{})
}

// 初回の判定が終わるまで待つ
func (m *Manager) WaitReady(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-m.ctx.Done():
		return ErrClosed
	}
}

// seqのイベントの同期が終わるまで待ち、その結果を返す
func (m *Manager) waitSeq(ctx context.Context, seq uint64) error {
	for {
		m.mu.Lock()
		if m.processed >= seq {
			err := m.outcomes[seq]
			delete(m.outcomes, seq)
			m.mu.Unlock()
			return err
		}
		ch := m.changed
		m.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		case <-m.ctx.Done():
			return ErrClosed
		}
	}
}

func (m *Manager) Login(ctx context.Context, email, password string) error {
	seq, err := m.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return err
	}
	return m.waitSeq(ctx, seq)
}

func (m *Manager) Register(ctx context.Context, email, password string) error {
	seq, err := m.auth.CreateUserWithPassword(ctx, email, password)
	if err != nil {
		return err
	}
	return m.waitSeq(ctx, seq)
}

func (m *Manager) Logout(ctx context.Context) error {
	return m.waitSeq(ctx, m.auth.SignOut())
}

// Revalidate はログイン中ユーザーのステータスと権限をストアから読み直す。
// ブロックされていればサインアウトして ErrAccountBlocked を返す。
// ストアが読めないときは今の状態のまま。
func (m *Manager) Revalidate(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateAuthenticated || m.user == nil {
		m.mu.Unlock()
		return nil
	}
	uid := m.user.ID
	m.mu.Unlock()

	u, err := m.users.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	if !u.IsBlocked() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.user != nil && m.user.ID == uid {
			m.user.Role, m.user.Status = u.Role, u.Status
			m.isAdmin = authorize(m.user, m.adminEmail)
		}
		return nil
	}

	m.log.InfoContext(ctx, "blocked account signed out", slog.String("uid", uid))
	if err := m.waitSeq(ctx, m.auth.SignOut()); err != nil {
		return err
	}
	m.mu.Lock()
	m.blocked = true
	m.notifyLocked()
	m.mu.Unlock()
	return apperr.ErrAccountBlocked
}

// LoginWithFederatedProvider はpopupでのサインインを試す。
// popupがブロック・キャンセルされたらredirectに切り替え、遷移先URLを返す。
func (m *Manager) LoginWithFederatedProvider(ctx context.Context, kind model.AuthProvider, popup identity.Popup) (string, error) {
	seq, err := m.auth.SignInWithPopup(ctx, kind, popup)
	if err == nil {
		return "", m.waitSeq(ctx, seq)
	}
	if !apperr.IsAuthCode(err, apperr.AuthPopupBlocked) && !apperr.IsAuthCode(err, apperr.AuthPopupClosed) {
		return "", err
	}

	url, rerr := m.auth.SignInWithRedirect(ctx, kind)
	if rerr != nil {
		return "", rerr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StatePendingRedirect
	m.redirectURL = url
	m.redirectErr = ""
	m.notifyLocked()
	return url, nil
}

func (m *Manager) SetPersistence(p identity.Persistence) error {
	return m.auth.SetPersistence(p)
}

func (m *Manager) Token() (string, identity.Persistence) {
	return m.auth.Token()
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{
		State:         m.state,
		Loading:       m.loading,
		IsAdmin:       m.isAdmin,
		Blocked:       m.blocked,
		RedirectURL:   m.redirectURL,
		RedirectError: m.redirectErr,
	}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

// Close 後のイベントは状態を変えない
func (m *Manager) Close() {
	m.cancel()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.auth.Close()
}
