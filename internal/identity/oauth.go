package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"pickleshop/internal/domain/model"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

// プロバイダから取れるプロフィール
type FederatedProfile struct {
	Subject     string
	Email       string
	DisplayName string
	PhotoURL    string
}

// 外部IDプロバイダ（Google, Facebook）
type FederatedProvider interface {
	Kind() model.AuthProvider
	// popup: クライアントが取得したaccess tokenを検証してプロフィールを取る
	ProfileFromAccessToken(ctx context.Context, accessToken string) (FederatedProfile, error)
	// redirect: 認可URLとcallbackのcode交換
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (FederatedProfile, error)
}

// OAuth2 + userinfoエンドポイントの実装
type OAuthProvider struct {
	kind        model.AuthProvider
	conf        *oauth2.Config
	userInfoURL string
	decode      func(body []byte) (FederatedProfile, error)
}

const (
	googleUserInfoURL   = "https://openidconnect.googleapis.com/v1/userinfo"
	facebookUserInfoURL = "https://graph.facebook.com/me?fields=id,name,email,picture.type(large)"
)

// redirectURL は {PUBLIC_URL}/auth/callback/google.com など
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *OAuthProvider {
	return &OAuthProvider{
		kind: model.ProviderGoogle,
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: googleUserInfoURL,
		decode:      decodeGoogleProfile,
	}
}

func NewFacebookProvider(clientID, clientSecret, redirectURL string) *OAuthProvider {
	return &OAuthProvider{
		kind: model.ProviderFacebook,
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     facebook.Endpoint,
			Scopes:       []string{"email", "public_profile"},
		},
		userInfoURL: facebookUserInfoURL,
		decode:      decodeFacebookProfile,
	}
}

func (p *OAuthProvider) Kind() model.AuthProvider { return p.kind }

func (p *OAuthProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *OAuthProvider) Exchange(ctx context.Context, code string) (FederatedProfile, error) {
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return FederatedProfile{}, fmt.Errorf("exchange code: %w", err)
	}
	return p.fetch(ctx, tok)
}

func (p *OAuthProvider) ProfileFromAccessToken(ctx context.Context, accessToken string) (FederatedProfile, error) {
	if accessToken == "" {
		return FederatedProfile{}, fmt.Errorf("empty access token")
	}
	return p.fetch(ctx, &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
}

func (p *OAuthProvider) fetch(ctx context.Context, tok *oauth2.Token) (FederatedProfile, error) {
	client := p.conf.Client(ctx, tok)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return FederatedProfile{}, err
	}
	res, err := client.Do(req)
	if err != nil {
		return FederatedProfile{}, fmt.Errorf("userinfo: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return FederatedProfile{}, err
	}
	if res.StatusCode != http.StatusOK {
		return FederatedProfile{}, fmt.Errorf("userinfo: status %d", res.StatusCode)
	}
	return p.decode(body)
}

func decodeGoogleProfile(body []byte) (FederatedProfile, error) {
	var v struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return FederatedProfile{}, err
	}
	return FederatedProfile{Subject: v.Sub, Email: v.Email, DisplayName: v.Name, PhotoURL: v.Picture}, nil
}

func decodeFacebookProfile(body []byte) (FederatedProfile, error) {
	var v struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return FederatedProfile{}, err
	}
	return FederatedProfile{Subject: v.ID, Email: v.Email, DisplayName: v.Name, PhotoURL: v.Picture.Data.URL}, nil
}
