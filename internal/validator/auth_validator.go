package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"pickleshop/internal/identity"
	"pickleshop/internal/usecase"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")
)

var emailLike = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

type authValidator struct{}

// Usecaseは interface を依存注入
func NewAuthValidator() usecase.AuthValidator {
	return &authValidator{}
}

// ログイン・登録の入力を検証（パスワードの強さはidentity側で判定）
func (v *authValidator) ValidateCredentials(email string, password string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" {
		return invalid("email and password are required")
	}

	// email形式
	if !isEmailLike(email) {
		return invalid("email is malformed")
	}

	if len(password) > 128 {
		return invalid("password is too long")
	}
	return nil
}

func (v *authValidator) ValidatePersistence(mode string) error {
	if !identity.Persistence(mode).Valid() {
		return invalid("persistence must be local, session or none")
	}
	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	return emailLike.MatchString(s)
}
