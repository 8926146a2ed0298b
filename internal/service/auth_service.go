package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/auth/facebook_auth"
	"github.com/RoyceAzure/lab/storefront/internal/infra/auth/google_auth"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/RoyceAzure/lab/storefront/internal/token"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength     = 8
	PasswordResetDuration = time.Hour
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	ExpiresAt   time.Time  `json:"expires_at"`
	User        model.User `json:"user"`
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type IAuthService interface {
	// Register 建立客戶帳號並寄送歡迎信
	//
	// 錯誤:
	//   - er.BadRequestCode 400: 欄位錯誤或 email 已被註冊
	Register(ctx context.Context, in RegisterInput) (*LoginResponse, error)
	// Login 錯誤:
	//   - er.UnauthenticatedCode 401: 帳號密碼錯誤或帳號停用
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	// Me 取得 context 中 token 對應的使用者
	Me(ctx context.Context) (*model.User, error)
	// GoogleLogin 以 email upsert 使用者
	//
	// 錯誤:
	//   - er.BadRequestCode 400: 未設定 Google 登入
	//   - er.UnauthenticatedCode 401: token 驗證失敗或帳號停用
	GoogleLogin(ctx context.Context, idToken string) (*LoginResponse, error)
	FacebookLogin(ctx context.Context, accessToken string) (*LoginResponse, error)
	// ForgotPassword 不論 email 是否存在都不回傳錯誤
	ForgotPassword(ctx context.Context, email string) error
	// ResetPassword 錯誤:
	//   - er.BadRequestCode 400: token 不存在、已使用或過期
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

type AuthServiceOption func(*AuthService)

func WithGoogleVerifier(v google_auth.IAuthVerifier) AuthServiceOption {
	return func(s *AuthService) { s.google = v }
}

func WithFacebookVerifier(v facebook_auth.IAuthVerifier) AuthServiceOption {
	return func(s *AuthService) { s.facebook = v }
}

type AuthService struct {
	users         db.IUserRepository
	notifier      INotifier
	tokenMaker    token.Maker
	tokenDuration time.Duration
	google        google_auth.IAuthVerifier
	facebook      facebook_auth.IAuthVerifier
	frontendURL   string
	logger        *zerolog.Logger
	async         func(func())
	now           func() time.Time
}

func NewAuthService(users db.IUserRepository, notifier INotifier, tokenMaker token.Maker, tokenDuration time.Duration, frontendURL string, logger *zerolog.Logger, opts ...AuthServiceOption) *AuthService {
	if util.IsNil(users) {
		panic("auth service initialization failed: users repository cannot be nil")
	}
	if util.IsNil(notifier) {
		panic("auth service initialization failed: notifier cannot be nil")
	}
	if util.IsNil(tokenMaker) {
		panic("auth service initialization failed: tokenMaker cannot be nil")
	}
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	s := &AuthService{
		users:         users,
		notifier:      notifier,
		tokenMaker:    tokenMaker,
		tokenDuration: tokenDuration,
		frontendURL:   strings.TrimRight(frontendURL, "/"),
		logger:        logger,
		async:         func(f func()) { go f() },
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func CheckPassword(password, hashed string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func (a *AuthService) issue(user *model.User) (*LoginResponse, error) {
	accessToken, payload, err := a.tokenMaker.CreateToken(user.Email, user.ID, user.Role, a.tokenDuration)
	if err != nil {
		return nil, er.New(er.InternalErrorCode, err.Error())
	}
	return &LoginResponse{AccessToken: accessToken, ExpiresAt: payload.ExpiredAt, User: *user}, nil
}

func (a *AuthService) sendWelcome(email, name string) {
	a.async(func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := a.notifier.SendWelcome(ctx, email, name); err != nil {
			a.logger.Warn().Err(err).Str("email", email).Msg("failed to send welcome email")
		}
	})
}

func (a *AuthService) Register(ctx context.Context, in RegisterInput) (*LoginResponse, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if !validEmail(email) {
		return nil, er.New(er.BadRequestCode, "a valid email is required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, er.Newf(er.BadRequestCode, "password must be at least %d characters", MinPasswordLength)
	}
	if name == "" {
		return nil, er.New(er.BadRequestCode, "name is required")
	}

	if _, err := a.users.GetUserByEmail(ctx, email); err == nil {
		return nil, er.New(er.BadRequestCode, "email already registered")
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, repoErr(err, "user")
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, er.New(er.InternalErrorCode, err.Error())
	}
	now := a.now().UTC()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
		Role:         constants.RoleCustomer,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicateKey) {
			return nil, er.New(er.BadRequestCode, "email already registered")
		}
		return nil, repoErr(err, "user")
	}

	a.sendWelcome(user.Email, user.Name)
	return a.issue(user)
}

func (a *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := a.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, er.New(er.UnauthenticatedCode, ErrInvalidCredentials.Error())
		}
		return nil, repoErr(err, "user")
	}
	// 第三方登入建立的帳號沒有密碼
	if user.PasswordHash == "" || CheckPassword(password, user.PasswordHash) != nil {
		return nil, er.New(er.UnauthenticatedCode, ErrInvalidCredentials.Error())
	}
	if !user.IsActive {
		return nil, er.New(er.UnauthenticatedCode, "account is disabled")
	}
	return a.issue(user)
}

func (a *AuthService) Me(ctx context.Context) (*model.User, error) {
	payload := util.GetTokenPayloadFromContext(ctx)
	if payload == nil {
		return nil, er.New(er.UnauthenticatedCode, "missing token payload")
	}
	user, err := a.users.GetUserByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, er.New(er.UnauthenticatedCode, "user no longer exists")
		}
		return nil, repoErr(err, "user")
	}
	return user, nil
}

func (a *AuthService) GoogleLogin(ctx context.Context, idToken string) (*LoginResponse, error) {
	if util.IsNil(a.google) {
		return nil, er.New(er.BadRequestCode, "google login is not configured")
	}
	claims, err := a.google.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, er.New(er.UnauthenticatedCode, err.Error())
	}
	return a.socialLogin(ctx, claims)
}

func (a *AuthService) FacebookLogin(ctx context.Context, accessToken string) (*LoginResponse, error) {
	if util.IsNil(a.facebook) {
		return nil, er.New(er.BadRequestCode, "facebook login is not configured")
	}
	claims, err := a.facebook.VerifyAccessToken(ctx, accessToken)
	if err != nil {
		return nil, er.New(er.UnauthenticatedCode, err.Error())
	}
	return a.socialLogin(ctx, claims)
}

// socialLogin 以 email 對應既有帳號，不存在則建立 customer
func (a *AuthService) socialLogin(ctx context.Context, claims *model.IdentityClaims) (*LoginResponse, error) {
	email := normalizeEmail(claims.Email)
	if email == "" {
		return nil, er.New(er.UnauthenticatedCode, "identity provider did not return an email")
	}

	user, err := a.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if !user.IsActive {
			return nil, er.New(er.UnauthenticatedCode, "account is disabled")
		}
		linkProvider(user, claims)
		if user.Picture == "" {
			user.Picture = claims.Picture
		}
		if err := a.users.UpdateUser(ctx, user); err != nil {
			return nil, repoErr(err, "user")
		}
	case errors.Is(err, db.ErrNotFound):
		now := a.now().UTC()
		name := claims.Name
		if name == "" {
			name = strings.Split(email, "@")[0]
		}
		user = &model.User{
			ID:        uuid.NewString(),
			Email:     email,
			Name:      name,
			Role:      constants.RoleCustomer,
			Picture:   claims.Picture,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		linkProvider(user, claims)
		if err := a.users.CreateUser(ctx, user); err != nil {
			return nil, repoErr(err, "user")
		}
		a.sendWelcome(user.Email, user.Name)
	default:
		return nil, repoErr(err, "user")
	}

	a.logger.Info().Str("provider", claims.Provider).Str("user_id", user.ID).Msg("social login")
	return a.issue(user)
}

func linkProvider(user *model.User, claims *model.IdentityClaims) {
	switch claims.Provider {
	case "google":
		user.GoogleID = claims.ProviderUserID
	case "facebook":
		user.FacebookID = claims.ProviderUserID
	}
}

func (a *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := a.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			a.logger.Error().Err(err).Msg("failed to look up user for password reset")
		}
		return nil
	}
	if !user.IsActive {
		return nil
	}

	now := a.now().UTC()
	reset := &model.PasswordReset{
		ID:        util.RandomHex(32),
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: now.Add(PasswordResetDuration),
		CreatedAt: now,
	}
	if err := a.users.CreatePasswordReset(ctx, reset); err != nil {
		a.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to store password reset")
		return nil
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", a.frontendURL, reset.ID)
	name := user.Name
	a.async(func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := a.notifier.SendPasswordReset(ctx, email, name, resetURL); err != nil {
			a.logger.Warn().Err(err).Str("user_id", reset.UserID).Msg("failed to send password reset email")
		}
	})
	return nil
}

func (a *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return er.Newf(er.BadRequestCode, "password must be at least %d characters", MinPasswordLength)
	}
	reset, err := a.users.GetPasswordReset(ctx, resetToken)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return er.New(er.BadRequestCode, "invalid or expired reset token")
		}
		return repoErr(err, "password reset")
	}
	if reset.Used || a.now().After(reset.ExpiresAt) {
		return er.New(er.BadRequestCode, "invalid or expired reset token")
	}

	user, err := a.users.GetUserByID(ctx, reset.UserID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return er.New(er.BadRequestCode, "invalid or expired reset token")
		}
		return repoErr(err, "user")
	}
	hashed, err := HashPassword(newPassword)
	if err != nil {
		return er.New(er.InternalErrorCode, err.Error())
	}
	user.PasswordHash = hashed
	if err := a.users.UpdateUser(ctx, user); err != nil {
		return repoErr(err, "user")
	}
	if err := a.users.MarkPasswordResetUsed(ctx, reset.ID); err != nil {
		return repoErr(err, "password reset")
	}
	return nil
}
