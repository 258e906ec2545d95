package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"pickleshop/internal/domain/apperr"
	"pickleshop/internal/domain/model"
	"pickleshop/internal/identity"
	"pickleshop/internal/metrics"
	"pickleshop/internal/session"
)

// session.Manager のうち認証の操作
type SessionManager interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	LoginWithFederatedProvider(ctx context.Context, kind model.AuthProvider, popup identity.Popup) (string, error)
	SetPersistence(p identity.Persistence) error
	Snapshot() session.Snapshot
}

type AuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type FederatedResult struct {
	Session session.Snapshot `json:"session"`
	// popupが使えずredirectに切り替えたときの遷移先
	RedirectURL string `json:"redirect_url,omitempty"`
}

type AuthUsecase struct {
	validator AuthValidator
	log       *slog.Logger
}

func NewAuthUsecase(validator AuthValidator, log *slog.Logger) *AuthUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &AuthUsecase{validator: validator, log: log}
}

func (u *AuthUsecase) Login(ctx context.Context, m SessionManager, req AuthRequest) (session.Snapshot, error) {
	if err := u.validator.ValidateCredentials(req.Email, req.Password); err != nil {
		return m.Snapshot(), NewHTTPError(http.StatusBadRequest, err.Error())
	}
	err := m.Login(ctx, strings.TrimSpace(req.Email), req.Password)
	u.record(ctx, "login", err)
	return m.Snapshot(), err
}

func (u *AuthUsecase) Register(ctx context.Context, m SessionManager, req AuthRequest) (session.Snapshot, error) {
	if err := u.validator.ValidateCredentials(req.Email, req.Password); err != nil {
		return m.Snapshot(), NewHTTPError(http.StatusBadRequest, err.Error())
	}
	err := m.Register(ctx, strings.TrimSpace(req.Email), req.Password)
	u.record(ctx, "register", err)
	return m.Snapshot(), err
}

func (u *AuthUsecase) Logout(ctx context.Context, m SessionManager) (session.Snapshot, error) {
	err := m.Logout(ctx)
	return m.Snapshot(), err
}

// "google" / "google.com" / "facebook" / "facebook.com"
func ParseProvider(s string) (model.AuthProvider, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "google", string(model.ProviderGoogle):
		return model.ProviderGoogle, true
	case "facebook", string(model.ProviderFacebook):
		return model.ProviderFacebook, true
	}
	return "", false
}

func (u *AuthUsecase) Federated(ctx context.Context, m SessionManager, provider string, popup identity.Popup) (FederatedResult, error) {
	kind, ok := ParseProvider(provider)
	if !ok {
		return FederatedResult{Session: m.Snapshot()}, NewHTTPError(http.StatusBadRequest, "unknown provider")
	}
	url, err := m.LoginWithFederatedProvider(ctx, kind, popup)
	if url == "" {
		u.record(ctx, "federated", err)
	}
	return FederatedResult{Session: m.Snapshot(), RedirectURL: url}, err
}

func (u *AuthUsecase) SetPersistence(m SessionManager, mode string) error {
	if err := u.validator.ValidatePersistence(mode); err != nil {
		return NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return m.SetPersistence(identity.Persistence(mode))
}

func (u *AuthUsecase) record(ctx context.Context, method string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, apperr.ErrAccountBlocked):
		outcome = "blocked"
	default:
		outcome = "error"
		u.log.InfoContext(ctx, "sign-in failed", slog.String("method", method), slog.Any("err", err))
	}
	metrics.SignIns.WithLabelValues(method, outcome).Inc()
}
