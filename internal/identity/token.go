package identity

import (
	"errors"
	"time"

	"pickleshop/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

// ログイン状態の保存先
type Persistence string

const (
	// ブラウザを閉じても残る
	PersistenceLocal Persistence = "local"
	// ブラウザを閉じるまで
	PersistenceSession Persistence = "session"
	// 保存しない
	PersistenceNone Persistence = "none"
)

func (p Persistence) Valid() bool {
	switch p {
	case PersistenceLocal, PersistenceSession, PersistenceNone:
		return true
	}
	return false
}

var ErrInvalidToken = errors.New("invalid id token")

const (
	localTokenTTL   = 30 * 24 * time.Hour
	sessionTokenTTL = 24 * time.Hour
)

// IDトークン（HS256）の発行と検証
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

type idClaims struct {
	Email       string             `json:"email"`
	Name        string             `json:"name,omitempty"`
	Picture     string             `json:"picture,omitempty"`
	Provider    model.AuthProvider `json:"provider"`
	Persistence Persistence        `json:"pst"`
	jwt.RegisteredClaims
}

func (i *TokenIssuer) Issue(ident Identity, p Persistence, now time.Time) (string, time.Time, error) {
	ttl := sessionTokenTTL
	if p == PersistenceLocal {
		ttl = localTokenTTL
	}
	exp := now.Add(ttl)

	claims := idClaims{
		Email:       ident.Email,
		Name:        ident.DisplayName,
		Picture:     ident.PhotoURL,
		Provider:    ident.Provider,
		Persistence: p,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse は署名と期限を検証してIdentityを返す
func (i *TokenIssuer) Parse(raw string) (Identity, Persistence, error) {
	var claims idClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return Identity{}, "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return Identity{}, "", ErrInvalidToken
	}

	p := claims.Persistence
	if !p.Valid() || p == PersistenceNone {
		p = PersistenceLocal
	}

	return Identity{
		UID:         claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
		Provider:    claims.Provider,
	}, p, nil
}
