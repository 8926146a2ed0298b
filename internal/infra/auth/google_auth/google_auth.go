package google_auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/model"
)

const tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrAudienceMismatch = errors.New("token was not issued for this application")
)

type IAuthVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*model.IdentityClaims, error)
}

// GoogleAuthVerifier 驗證Google登入token並取得用戶資訊
type GoogleAuthVerifier struct {
	ClientID string
	baseURL  string
	client   *http.Client
}

func NewGoogleAuthVerifier(clientID string, timeout time.Duration) *GoogleAuthVerifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleAuthVerifier{
		ClientID: clientID,
		baseURL:  tokenInfoURL,
		client:   &http.Client{Timeout: timeout},
	}
}

func (g *GoogleAuthVerifier) WithBaseURL(u string) *GoogleAuthVerifier {
	g.baseURL = u
	return g
}

// tokeninfo 回傳的布林值是字串
type tokenInfo struct {
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// VerifyIDToken 驗證從前端傳來的ID token
func (g *GoogleAuthVerifier) VerifyIDToken(ctx context.Context, idToken string) (*model.IdentityClaims, error) {
	if idToken == "" {
		return nil, ErrInvalidToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?id_token="+url.QueryEscape(idToken), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending verification request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	// 驗證這個token是發給我們的應用
	if info.Aud != g.ClientID {
		return nil, ErrAudienceMismatch
	}
	if info.Email == "" {
		return nil, ErrInvalidToken
	}

	return &model.IdentityClaims{
		Provider:       "google",
		ProviderUserID: info.Sub,
		Email:          strings.ToLower(info.Email),
		EmailVerified:  info.EmailVerified == "true",
		Name:           info.Name,
		Picture:        info.Picture,
	}, nil
}
