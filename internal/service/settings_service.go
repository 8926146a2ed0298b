package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/payment"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/google/uuid"
)

var MsgMaxExternalLinks = fmt.Sprintf("Maximum %d external links allowed", constants.MaxExternalLinks)

// PaymentGatewayView 後台設定加上啟動時決定的 live/sandbox
type PaymentGatewayView struct {
	model.PaymentGatewayConfig
	Mode payment.Mode `json:"mode,omitempty"`
}

type PaymentGatewayUpdate struct {
	DisplayName *string
	Description *string
	Enabled     *bool
	SortOrder   *int
}

type ISettingsService interface {
	// GetStoreSettings 尚未設定時回傳預設值
	GetStoreSettings(ctx context.Context) (*model.StoreSettings, error)
	UpdateStoreSettings(ctx context.Context, settings *model.StoreSettings) (*model.StoreSettings, error)

	ListPaymentGateways(ctx context.Context) ([]PaymentGatewayView, error)
	// ListPaymentMethods 前台結帳可用的付款方式
	ListPaymentMethods(ctx context.Context) ([]PaymentGatewayView, error)
	UpdatePaymentGateway(ctx context.Context, id string, update PaymentGatewayUpdate) (*PaymentGatewayView, error)
	IsPaymentMethodEnabled(ctx context.Context, method model.PaymentMethod) (bool, error)

	ListSocialLinks(ctx context.Context, activeOnly bool) ([]model.SocialLink, error)
	CreateSocialLink(ctx context.Context, link *model.SocialLink) (*model.SocialLink, error)
	UpdateSocialLink(ctx context.Context, link *model.SocialLink) (*model.SocialLink, error)
	DeleteSocialLink(ctx context.Context, id string) error

	ListExternalLinks(ctx context.Context) ([]model.ExternalLink, error)
	// CreateExternalLink 最多 3 筆
	//
	// 錯誤:
	//   - er.BadRequestCode 400: Maximum 3 external links allowed
	CreateExternalLink(ctx context.Context, link *model.ExternalLink) (*model.ExternalLink, error)
	UpdateExternalLink(ctx context.Context, link *model.ExternalLink) (*model.ExternalLink, error)
	DeleteExternalLink(ctx context.Context, id string) error

	GetFloatingAnnouncement(ctx context.Context) (*model.FloatingAnnouncement, error)
	UpdateFloatingAnnouncement(ctx context.Context, a *model.FloatingAnnouncement) (*model.FloatingAnnouncement, error)
}

type SettingsService struct {
	repo  db.ISettingsRepository
	modes map[string]payment.Mode
}

func NewSettingsService(repo db.ISettingsRepository, modes map[string]payment.Mode) *SettingsService {
	if util.IsNil(repo) {
		panic("settings service initialization failed: repo cannot be nil")
	}
	if modes == nil {
		modes = map[string]payment.Mode{}
	}
	return &SettingsService{repo: repo, modes: modes}
}

func defaultPaymentGateways() []model.PaymentGatewayConfig {
	return []model.PaymentGatewayConfig{
		{ID: string(model.PaymentMethodManual), DisplayName: "Bank Transfer", Description: "Pay by bank transfer, order ships after payment is received", Enabled: true, SortOrder: 1},
		{ID: string(model.PaymentMethodStripe), DisplayName: "Credit / Debit Card", Description: "Secure card payment via Stripe", Enabled: true, SortOrder: 2},
		{ID: string(model.PaymentMethodPaypal), DisplayName: "PayPal", Description: "Pay with your PayPal account", Enabled: true, SortOrder: 3},
		{ID: string(model.PaymentMethodPlisio), DisplayName: "Cryptocurrency", Description: "Pay with crypto via Plisio and save 15%", Enabled: true, SortOrder: 4},
		{ID: string(model.PaymentMethodBinance), DisplayName: "Binance Pay", Description: "Pay with Binance Pay and save 15%", Enabled: true, SortOrder: 5},
	}
}

func (s *SettingsService) GetStoreSettings(ctx context.Context) (*model.StoreSettings, error) {
	settings, err := s.repo.GetStoreSettings(ctx)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			def := model.DefaultStoreSettings()
			return &def, nil
		}
		return nil, repoErr(err, "store settings")
	}
	return settings, nil
}

func (s *SettingsService) UpdateStoreSettings(ctx context.Context, settings *model.StoreSettings) (*model.StoreSettings, error) {
	if strings.TrimSpace(settings.StoreName) == "" {
		return nil, er.New(er.BadRequestCode, "store_name is required")
	}
	if settings.StandardShippingCost < 0 || settings.ExpressShippingCost < 0 || settings.FreeShippingThreshold < 0 {
		return nil, er.New(er.BadRequestCode, "shipping costs cannot be negative")
	}
	if settings.Currency == "" {
		settings.Currency = "USD"
	}
	settings.Currency = strings.ToUpper(settings.Currency)
	settings.ID = model.StoreSettingsID
	settings.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpsertStoreSettings(ctx, settings); err != nil {
		return nil, repoErr(err, "store settings")
	}
	return settings, nil
}

// 已存的設定覆蓋預設值
func (s *SettingsService) ListPaymentGateways(ctx context.Context) ([]PaymentGatewayView, error) {
	stored, err := s.repo.ListPaymentGateways(ctx)
	if err != nil {
		return nil, repoErr(err, "payment gateway")
	}
	byID := make(map[string]model.PaymentGatewayConfig, len(stored))
	for _, g := range stored {
		byID[g.ID] = g
	}

	defaults := defaultPaymentGateways()
	res := make([]PaymentGatewayView, 0, len(defaults))
	for _, def := range defaults {
		cfg := def
		if g, ok := byID[def.ID]; ok {
			cfg = g
		}
		res = append(res, PaymentGatewayView{PaymentGatewayConfig: cfg, Mode: s.modes[cfg.ID]})
	}
	sortStable(res, func(a, b PaymentGatewayView) bool { return a.SortOrder < b.SortOrder })
	return res, nil
}

func (s *SettingsService) ListPaymentMethods(ctx context.Context) ([]PaymentGatewayView, error) {
	all, err := s.ListPaymentGateways(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]PaymentGatewayView, 0, len(all))
	for _, g := range all {
		if g.Enabled {
			res = append(res, g)
		}
	}
	return res, nil
}

func (s *SettingsService) UpdatePaymentGateway(ctx context.Context, id string, update PaymentGatewayUpdate) (*PaymentGatewayView, error) {
	if !model.IsValidPaymentMethod(id) {
		return nil, er.Newf(er.NotFoundCode, "payment gateway %s not found", id)
	}
	all, err := s.ListPaymentGateways(ctx)
	if err != nil {
		return nil, err
	}
	var cfg model.PaymentGatewayConfig
	for _, g := range all {
		if g.ID == id {
			cfg = g.PaymentGatewayConfig
		}
	}

	if update.DisplayName != nil {
		cfg.DisplayName = *update.DisplayName
	}
	if update.Description != nil {
		cfg.Description = *update.Description
	}
	if update.Enabled != nil {
		cfg.Enabled = *update.Enabled
	}
	if update.SortOrder != nil {
		cfg.SortOrder = *update.SortOrder
	}
	cfg.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpsertPaymentGateway(ctx, &cfg); err != nil {
		return nil, repoErr(err, "payment gateway")
	}
	return &PaymentGatewayView{PaymentGatewayConfig: cfg, Mode: s.modes[cfg.ID]}, nil
}

func (s *SettingsService) IsPaymentMethodEnabled(ctx context.Context, method model.PaymentMethod) (bool, error) {
	g, err := s.repo.GetPaymentGateway(ctx, string(method))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return model.IsValidPaymentMethod(string(method)), nil
		}
		return false, repoErr(err, "payment gateway")
	}
	return g.Enabled, nil
}

func (s *SettingsService) ListSocialLinks(ctx context.Context, activeOnly bool) ([]model.SocialLink, error) {
	links, err := s.repo.ListSocialLinks(ctx)
	if err != nil {
		return nil, repoErr(err, "social link")
	}
	if !activeOnly {
		return links, nil
	}
	res := make([]model.SocialLink, 0, len(links))
	for _, l := range links {
		if l.Active {
			res = append(res, l)
		}
	}
	return res, nil
}

func validateLink(platformOrTitle, url, field string) error {
	if strings.TrimSpace(platformOrTitle) == "" {
		return er.Newf(er.BadRequestCode, "%s is required", field)
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return er.New(er.BadRequestCode, "url must start with http:// or https://")
	}
	return nil
}

func (s *SettingsService) CreateSocialLink(ctx context.Context, link *model.SocialLink) (*model.SocialLink, error) {
	if err := validateLink(link.Platform, link.URL, "platform"); err != nil {
		return nil, err
	}
	link.ID = uuid.NewString()
	link.CreatedAt = time.Now().UTC()
	if err := s.repo.CreateSocialLink(ctx, link); err != nil {
		return nil, repoErr(err, "social link")
	}
	return link, nil
}

func (s *SettingsService) UpdateSocialLink(ctx context.Context, link *model.SocialLink) (*model.SocialLink, error) {
	if err := validateLink(link.Platform, link.URL, "platform"); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetSocialLink(ctx, link.ID)
	if err != nil {
		return nil, repoErr(err, "social link")
	}
	link.CreatedAt = existing.CreatedAt
	if err := s.repo.UpdateSocialLink(ctx, link); err != nil {
		return nil, repoErr(err, "social link")
	}
	return link, nil
}

func (s *SettingsService) DeleteSocialLink(ctx context.Context, id string) error {
	return repoErr(s.repo.DeleteSocialLink(ctx, id), "social link")
}

func (s *SettingsService) ListExternalLinks(ctx context.Context) ([]model.ExternalLink, error) {
	links, err := s.repo.ListExternalLinks(ctx)
	if err != nil {
		return nil, repoErr(err, "external link")
	}
	return links, nil
}

func (s *SettingsService) CreateExternalLink(ctx context.Context, link *model.ExternalLink) (*model.ExternalLink, error) {
	if err := validateLink(link.Title, link.URL, "title"); err != nil {
		return nil, err
	}
	count, err := s.repo.CountExternalLinks(ctx)
	if err != nil {
		return nil, repoErr(err, "external link")
	}
	if count >= int64(constants.MaxExternalLinks) {
		return nil, er.New(er.BadRequestCode, MsgMaxExternalLinks)
	}

	link.ID = uuid.NewString()
	link.CreatedAt = time.Now().UTC()
	if err := s.repo.CreateExternalLink(ctx, link); err != nil {
		return nil, repoErr(err, "external link")
	}
	return link, nil
}

func (s *SettingsService) UpdateExternalLink(ctx context.Context, link *model.ExternalLink) (*model.ExternalLink, error) {
	if err := validateLink(link.Title, link.URL, "title"); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetExternalLink(ctx, link.ID)
	if err != nil {
		return nil, repoErr(err, "external link")
	}
	link.CreatedAt = existing.CreatedAt
	if err := s.repo.UpdateExternalLink(ctx, link); err != nil {
		return nil, repoErr(err, "external link")
	}
	return link, nil
}

func (s *SettingsService) DeleteExternalLink(ctx context.Context, id string) error {
	return repoErr(s.repo.DeleteExternalLink(ctx, id), "external link")
}

// GetFloatingAnnouncement 未設定時回傳停用狀態
func (s *SettingsService) GetFloatingAnnouncement(ctx context.Context) (*model.FloatingAnnouncement, error) {
	a, err := s.repo.GetFloatingAnnouncement(ctx)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return &model.FloatingAnnouncement{ID: model.FloatingAnnouncementID}, nil
		}
		return nil, repoErr(err, "floating announcement")
	}
	return a, nil
}

func (s *SettingsService) UpdateFloatingAnnouncement(ctx context.Context, a *model.FloatingAnnouncement) (*model.FloatingAnnouncement, error) {
	if a.Enabled && strings.TrimSpace(a.Message) == "" {
		return nil, er.New(er.BadRequestCode, "message is required when the announcement is enabled")
	}
	a.ID = model.FloatingAnnouncementID
	a.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpsertFloatingAnnouncement(ctx, a); err != nil {
		return nil, repoErr(err, "floating announcement")
	}
	return a, nil
}
