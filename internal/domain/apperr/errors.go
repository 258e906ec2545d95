// Package apperr はバックエンド（identity / ドキュメントストア）由来のエラー分類。
package apperr

import (
	"errors"
	"fmt"
)

type AuthCode string

const (
	AuthInvalidCredential      AuthCode = "auth/invalid-credential"
	AuthUserNotFound           AuthCode = "auth/user-not-found"
	AuthUserDisabled           AuthCode = "auth/user-disabled"
	AuthEmailAlreadyInUse      AuthCode = "auth/email-already-in-use"
	AuthWeakPassword           AuthCode = "auth/weak-password"
	AuthInvalidEmail           AuthCode = "auth/invalid-email"
	AuthOperationNotAllowed    AuthCode = "auth/operation-not-allowed"
	AuthPopupBlocked           AuthCode = "auth/popup-blocked"
	AuthPopupClosed            AuthCode = "auth/popup-closed-by-user"
	AuthCredentialAlreadyInUse AuthCode = "auth/credential-already-in-use"
	AuthNoPendingRedirect      AuthCode = "auth/no-auth-event"
)

// identity providerのエラー
type AuthError struct {
	Code AuthCode
	Msg  string
}

func (e *AuthError) Error() string {
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func NewAuthError(code AuthCode, msg string) error {
	return &AuthError{Code: code, Msg: msg}
}

func AsAuthError(err error) (*AuthError, bool) {
	var ae *AuthError
	ok := errors.As(err, &ae)
	return ae, ok
}

// IsAuthCode はerrが指定コードのAuthErrorか判定する。
func IsAuthCode(err error, code AuthCode) bool {
	ae, ok := AsAuthError(err)
	return ok && ae.Code == code
}

var (
	// バックエンドの権限ルールで拒否された
	ErrPermissionDenied = errors.New("access denied")

	// 直接参照でドキュメントが無い
	ErrNotFound = errors.New("not found")

	// プロフィールがblockedだったので強制ログアウトした
	ErrAccountBlocked = errors.New("account blocked")

	// ログインが必要（クライアントは/loginへ）
	ErrLoginRequired = errors.New("login required")
)

// その他の失敗。元のメッセージをそのまま返す。
type Failure struct {
	Op  string
	Err error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Op
	}
	return f.Err.Error()
}

func (f *Failure) Unwrap() error { return f.Err }

func Fail(op string, err error) error {
	return &Failure{Op: op, Err: err}
}
