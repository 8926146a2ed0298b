package facebook_auth

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

const graphURL = "https://graph.facebook.com"

var (
	ErrInvalidToken = errors.New("invalid facebook access token")
	ErrAppMismatch  = errors.New("token was not issued for this application")
	ErrMissingEmail = errors.New("facebook account has no email permission")
)

type IAuthVerifier interface {
	VerifyAccessToken(ctx context.Context, accessToken string) (*model.IdentityClaims, error)
}

/*
Verifier 先以 app token 呼叫 debug_token 確認 token 屬於本 app
再以 user token 取 /me 基本資料
*/
type Verifier struct {
	appID     string
	appSecret string
	baseURL   string
	client    *http.Client
}

func NewVerifier(appID, appSecret string, timeout time.Duration) *Verifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Verifier{
		appID:     appID,
		appSecret: appSecret,
		baseURL:   graphURL,
		client:    &http.Client{Timeout: timeout},
	}
}

func (v *Verifier) WithBaseURL(u string) *Verifier {
	v.baseURL = strings.TrimRight(u, "/")
	return v
}

func (v *Verifier) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrInvalidToken
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (v *Verifier) VerifyAccessToken(ctx context.Context, accessToken string) (*model.IdentityClaims, error) {
	if accessToken == "" {
		return nil, ErrInvalidToken
	}

	var debug struct {
		Data struct {
			AppID   string `json:"app_id"`
			IsValid bool   `json:"is_valid"`
			UserID  string `json:"user_id"`
		} `json:"data"`
	}
	err := v.getJSON(ctx, "/debug_token", url.Values{
		"input_token":  {accessToken},
		"access_token": {v.appID + "|" + v.appSecret},
	}, &debug)
	if err != nil {
		return nil, err
	}
	if !debug.Data.IsValid {
		return nil, ErrInvalidToken
	}
	if debug.Data.AppID != v.appID {
		return nil, ErrAppMismatch
	}

	var me struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	err = v.getJSON(ctx, "/me", url.Values{
		"fields":       {"id,name,email,picture"},
		"access_token": {accessToken},
	}, &me)
	if err != nil {
		return nil, err
	}
	if me.Email == "" {
		return nil, ErrMissingEmail
	}

	return &model.IdentityClaims{
		Provider:       "facebook",
		ProviderUserID: me.ID,
		Email:          strings.ToLower(me.Email),
		EmailVerified:  true,
		Name:           me.Name,
		Picture:        me.Picture.Data.URL,
	}, nil
}
