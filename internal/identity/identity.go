// Package identity はメール/パスワードと外部プロバイダ（Google, Facebook）のサインインを扱う。
// クライアントごとの状態は Auth が持ち、変更は購読者へ順番に通知する。
package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"pickleshop/internal/domain/apperr"
	"pickleshop/internal/domain/model"
	"pickleshop/internal/repository"

	"github.com/google/uuid"
)

// サインイン済みのアカウント
type Identity struct {
	UID         string             `json:"uid"`
	Email       string             `json:"email"`
	DisplayName string             `json:"display_name,omitempty"`
	PhotoURL    string             `json:"photo_url,omitempty"`
	Provider    model.AuthProvider `json:"provider"`
}

func fromCredential(c *model.Credential) Identity {
	return Identity{
		UID:         c.UID,
		Email:       c.Email,
		DisplayName: c.DisplayName,
		PhotoURL:    c.PhotoURL,
		Provider:    c.Provider,
	}
}

// ID生成の約束
type IDGenerator interface {
	NewID() string
}

// 現在時刻の約束
type Clock interface {
	Now() time.Time
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

const (
	redirectStateTTL  = 10 * time.Minute
	redirectResultTTL = 10 * time.Minute
)

type Options struct {
	Credentials repository.CredentialRepository
	Hasher      PasswordHasher
	Verifier    PasswordVerifier
	Tokens      *TokenIssuer
	Redirects   RedirectStore
	Providers   []FederatedProvider
	IDGen       IDGenerator
	Clock       Clock
	Logger      *slog.Logger

	// falseならemail/passwordは operation-not-allowed
	PasswordSignInEnabled bool
}

type Service struct {
	creds           repository.CredentialRepository
	hasher          PasswordHasher
	verifier        PasswordVerifier
	tokens          *TokenIssuer
	redirects       RedirectStore
	providers       map[model.AuthProvider]FederatedProvider
	idGen           IDGenerator
	clock           Clock
	log             *slog.Logger
	passwordEnabled bool
}

// DI
func NewService(opts Options) *Service {
	s := &Service{
		creds:           opts.Credentials,
		hasher:          opts.Hasher,
		verifier:        opts.Verifier,
		tokens:          opts.Tokens,
		redirects:       opts.Redirects,
		providers:       map[model.AuthProvider]FederatedProvider{},
		idGen:           opts.IDGen,
		clock:           opts.Clock,
		log:             opts.Logger,
		passwordEnabled: opts.PasswordSignInEnabled,
	}
	if s.hasher == nil {
		s.hasher = NewBcryptPasswordHasher(0)
	}
	if s.verifier == nil {
		s.verifier = NewBcryptPasswordVerifier()
	}
	if s.redirects == nil {
		s.redirects = NewMemoryRedirectStore()
	}
	if s.idGen == nil {
		s.idGen = UUIDGenerator{}
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	for _, p := range opts.Providers {
		if p != nil {
			s.providers[p.Kind()] = p
		}
	}
	return s
}

// email/passwordでの照合
func (s *Service) verifyPassword(ctx context.Context, email, password string) (Identity, error) {
	if !s.passwordEnabled {
		return Identity{}, apperr.NewAuthError(apperr.AuthOperationNotAllowed, "email/password sign-in is disabled")
	}
	email = normalizeEmail(email)
	if !isValidEmailFormat(email) {
		return Identity{}, apperr.NewAuthError(apperr.AuthInvalidEmail, "")
	}

	c, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return Identity{}, apperr.NewAuthError(apperr.AuthUserNotFound, "")
		}
		return Identity{}, err
	}
	if c.Disabled {
		return Identity{}, apperr.NewAuthError(apperr.AuthUserDisabled, "")
	}
	// 外部プロバイダのみのアカウントはパスワードを持たない
	if !s.verifier.Verify(password, c.PasswordHash) {
		return Identity{}, apperr.NewAuthError(apperr.AuthInvalidCredential, "")
	}

	s.touch(ctx, c.UID)
	return fromCredential(c), nil
}

// email/passwordのアカウント作成
func (s *Service) createPasswordAccount(ctx context.Context, email, password string) (Identity, error) {
	if !s.passwordEnabled {
		return Identity{}, apperr.NewAuthError(apperr.AuthOperationNotAllowed, "email/password sign-in is disabled")
	}
	email = normalizeEmail(email)
	if !isValidEmailFormat(email) {
		return Identity{}, apperr.NewAuthError(apperr.AuthInvalidEmail, "")
	}
	if isWeakPassword(password) {
		return Identity{}, apperr.NewAuthError(apperr.AuthWeakPassword, "password should be at least 6 characters")
	}

	// 重複チェック
	if _, err := s.creds.FindByEmail(ctx, email); err == nil {
		return Identity{}, apperr.NewAuthError(apperr.AuthEmailAlreadyInUse, "")
	} else if !errors.Is(err, repository.ErrCredentialNotFound) {
		return Identity{}, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return Identity{}, err
	}

	now := s.clock.Now()
	c := &model.Credential{
		UID:          s.idGen.NewID(),
		Email:        email,
		PasswordHash: hashed,
		Provider:     model.ProviderPassword,
		LastLoginAt:  &now,
	}
	if err := s.creds.Create(ctx, c); err != nil {
		// 同時登録でunique違反
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return Identity{}, apperr.NewAuthError(apperr.AuthEmailAlreadyInUse, "")
		}
		return Identity{}, err
	}
	return fromCredential(c), nil
}

func (s *Service) provider(kind model.AuthProvider) (FederatedProvider, error) {
	p, ok := s.providers[kind]
	if !ok {
		return nil, apperr.NewAuthError(apperr.AuthOperationNotAllowed, "provider "+string(kind)+" is not enabled")
	}
	return p, nil
}

// popupで受け取ったaccess tokenからサインイン
func (s *Service) signInWithAccessToken(ctx context.Context, kind model.AuthProvider, accessToken string) (Identity, error) {
	p, err := s.provider(kind)
	if err != nil {
		return Identity{}, err
	}
	profile, err := p.ProfileFromAccessToken(ctx, accessToken)
	if err != nil {
		return Identity{}, apperr.NewAuthError(apperr.AuthInvalidCredential, err.Error())
	}
	return s.linkFederated(ctx, kind, profile)
}

// 外部プロフィールとアカウントを結びつける。無ければ作る。
func (s *Service) linkFederated(ctx context.Context, kind model.AuthProvider, profile FederatedProfile) (Identity, error) {
	if profile.Subject == "" {
		return Identity{}, apperr.NewAuthError(apperr.AuthInvalidCredential, "missing subject")
	}

	c, err := s.creds.FindByProviderSubject(ctx, kind, profile.Subject)
	if err == nil {
		if c.Disabled {
			return Identity{}, apperr.NewAuthError(apperr.AuthUserDisabled, "")
		}
		s.touch(ctx, c.UID)
		ident := fromCredential(c)
		// 表示名と写真はプロバイダの最新値
		if profile.DisplayName != "" {
			ident.DisplayName = profile.DisplayName
		}
		if profile.PhotoURL != "" {
			ident.PhotoURL = profile.PhotoURL
		}
		return ident, nil
	}
	if !errors.Is(err, repository.ErrCredentialNotFound) {
		return Identity{}, err
	}

	email := normalizeEmail(profile.Email)
	if email != "" {
		if _, err := s.creds.FindByEmail(ctx, email); err == nil {
			return Identity{}, apperr.NewAuthError(apperr.AuthCredentialAlreadyInUse, "an account already exists with the same email")
		} else if !errors.Is(err, repository.ErrCredentialNotFound) {
			return Identity{}, err
		}
	} else {
		// メール非公開のアカウント
		email = profile.Subject + "@" + string(kind)
	}

	now := s.clock.Now()
	c = &model.Credential{
		UID:             s.idGen.NewID(),
		Email:           email,
		Provider:        kind,
		ProviderSubject: profile.Subject,
		DisplayName:     profile.DisplayName,
		PhotoURL:        profile.PhotoURL,
		LastLoginAt:     &now,
	}
	if err := s.creds.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return Identity{}, apperr.NewAuthError(apperr.AuthCredentialAlreadyInUse, "")
		}
		return Identity{}, err
	}
	return fromCredential(c), nil
}

// BeginRedirect はプロバイダの認可URLを返す。結果はkeyのクライアントに届く。
func (s *Service) BeginRedirect(ctx context.Context, kind model.AuthProvider, key string) (string, error) {
	p, err := s.provider(kind)
	if err != nil {
		return "", err
	}
	state := s.idGen.NewID()
	if err := s.redirects.SaveState(ctx, state, PendingRedirect{Key: key, Provider: kind}, redirectStateTTL); err != nil {
		return "", err
	}
	return p.AuthCodeURL(state), nil
}

// CompleteRedirect はプロバイダからのcallbackを処理し、結果を保存する。
// 戻り値は結果を受け取るクライアントのkey。
func (s *Service) CompleteRedirect(ctx context.Context, kind model.AuthProvider, state, code string) (string, error) {
	pending, ok, err := s.redirects.TakeState(ctx, state)
	if err != nil {
		return "", err
	}
	if !ok || pending.Provider != kind {
		return "", apperr.NewAuthError(apperr.AuthNoPendingRedirect, "unknown or expired state")
	}

	var result RedirectResult
	ident, err := s.exchange(ctx, kind, code)
	if err != nil {
		ae, isAuth := apperr.AsAuthError(err)
		if !isAuth {
			return "", err
		}
		result = RedirectResult{ErrCode: ae.Code, ErrMsg: ae.Msg}
	} else {
		result = RedirectResult{Identity: &ident}
	}

	if err := s.redirects.SaveResult(ctx, pending.Key, result, redirectResultTTL); err != nil {
		return "", err
	}
	return pending.Key, nil
}

func (s *Service) exchange(ctx context.Context, kind model.AuthProvider, code string) (Identity, error) {
	p, err := s.provider(kind)
	if err != nil {
		return Identity{}, err
	}
	profile, err := p.Exchange(ctx, code)
	if err != nil {
		return Identity{}, apperr.NewAuthError(apperr.AuthInvalidCredential, err.Error())
	}
	return s.linkFederated(ctx, kind, profile)
}

// 保存済みトークンからの復元。無効・停止済みならnil。
func (s *Service) restore(ctx context.Context, raw string) (*Identity, Persistence) {
	if raw == "" || s.tokens == nil {
		return nil, PersistenceLocal
	}
	ident, p, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, PersistenceLocal
	}
	c, err := s.creds.FindByUID(ctx, ident.UID)
	if err != nil {
		if !errors.Is(err, repository.ErrCredentialNotFound) {
			s.log.WarnContext(ctx, "restore identity", slog.String("uid", ident.UID), slog.Any("err", err))
		}
		return nil, p
	}
	if c.Disabled {
		return nil, p
	}
	restored := fromCredential(c)
	if ident.DisplayName != "" {
		restored.DisplayName = ident.DisplayName
	}
	if ident.PhotoURL != "" {
		restored.PhotoURL = ident.PhotoURL
	}
	return &restored, p
}

func (s *Service) issue(ident Identity, p Persistence) string {
	if s.tokens == nil || p == PersistenceNone {
		return ""
	}
	tok, _, err := s.tokens.Issue(ident, p, s.clock.Now())
	if err != nil {
		s.log.Error("issue id token", slog.String("uid", ident.UID), slog.Any("err", err))
		return ""
	}
	return tok
}

// 最終ログイン時刻。失敗してもサインインは続ける。
func (s *Service) touch(ctx context.Context, uid string) {
	if err := s.creds.TouchLogin(ctx, uid); err != nil {
		s.log.WarnContext(ctx, "touch login", slog.String("uid", uid), slog.Any("err", err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
