package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/infra/payment"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/memdb"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/stretchr/testify/require"
)

func TestStoreSettingsDefaults(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(memdb.NewStore(), nil)

	s, err := svc.GetStoreSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, model.DefaultStoreSettings().StoreName, s.StoreName)

	s.StoreName = "Royce Shop"
	s.Currency = "twd"
	updated, err := svc.UpdateStoreSettings(ctx, s)
	require.NoError(t, err)
	require.Equal(t, "TWD", updated.Currency)

	got, err := svc.GetStoreSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, "Royce Shop", got.StoreName)

	got.StandardShippingCost = -1
	_, err = svc.UpdateStoreSettings(ctx, got)
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))
}

func TestPaymentGateways(t *testing.T) {
	ctx := context.Background()
	modes := map[string]payment.Mode{
		payment.GatewayStripe: payment.ModeLive,
		payment.GatewayPaypal: payment.ModeSandbox,
	}
	svc := NewSettingsService(memdb.NewStore(), modes)

	all, err := svc.ListPaymentGateways(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(model.PaymentMethods))
	require.Equal(t, string(model.PaymentMethodManual), all[0].ID)
	require.Equal(t, payment.ModeLive, all[1].Mode)
	require.Equal(t, payment.ModeSandbox, all[2].Mode)

	disabled := false
	name := "Card"
	updated, err := svc.UpdatePaymentGateway(ctx, string(model.PaymentMethodStripe), PaymentGatewayUpdate{Enabled: &disabled, DisplayName: &name})
	require.NoError(t, err)
	require.False(t, updated.Enabled)
	require.Equal(t, "Card", updated.DisplayName)
	require.Equal(t, payment.ModeLive, updated.Mode)

	enabled, err := svc.IsPaymentMethodEnabled(ctx, model.PaymentMethodStripe)
	require.NoError(t, err)
	require.False(t, enabled)
	enabled, err = svc.IsPaymentMethodEnabled(ctx, model.PaymentMethodPaypal)
	require.NoError(t, err)
	require.True(t, enabled)

	public, err := svc.ListPaymentMethods(ctx)
	require.NoError(t, err)
	require.Len(t, public, len(model.PaymentMethods)-1)
	for _, g := range public {
		require.NotEqual(t, string(model.PaymentMethodStripe), g.ID)
	}

	_, err = svc.UpdatePaymentGateway(ctx, "cash", PaymentGatewayUpdate{})
	require.Equal(t, er.NotFoundCode, er.CodeOf(err))
}

func TestExternalLinksLimit(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(memdb.NewStore(), nil)

	var first *model.ExternalLink
	for i := 0; i < 3; i++ {
		link, err := svc.CreateExternalLink(ctx, &model.ExternalLink{Title: fmt.Sprintf("Link %d", i), URL: "https://example.com"})
		require.NoError(t, err)
		if first == nil {
			first = link
		}
	}

	_, err := svc.CreateExternalLink(ctx, &model.ExternalLink{Title: "Fourth", URL: "https://example.com/4"})
	require.Error(t, err)
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))
	require.Contains(t, err.Error(), "Maximum 3 external links allowed")

	require.NoError(t, svc.DeleteExternalLink(ctx, first.ID))
	_, err = svc.CreateExternalLink(ctx, &model.ExternalLink{Title: "Fourth", URL: "https://example.com/4"})
	require.NoError(t, err)

	_, err = svc.CreateExternalLink(ctx, &model.ExternalLink{Title: "No scheme", URL: "example.com"})
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))
}

func TestSocialLinksAndAnnouncement(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(memdb.NewStore(), nil)

	active, err := svc.CreateSocialLink(ctx, &model.SocialLink{Platform: "instagram", URL: "https://instagram.com/shop", Active: true})
	require.NoError(t, err)
	_, err = svc.CreateSocialLink(ctx, &model.SocialLink{Platform: "x", URL: "https://x.com/shop"})
	require.NoError(t, err)

	links, err := svc.ListSocialLinks(ctx, true)
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, active.ID, links[0].ID)

	links, err = svc.ListSocialLinks(ctx, false)
	require.NoError(t, err)
	require.Len(t, links, 2)

	_, err = svc.UpdateSocialLink(ctx, &model.SocialLink{ID: "missing", Platform: "x", URL: "https://x.com"})
	require.Equal(t, er.NotFoundCode, er.CodeOf(err))

	a, err := svc.GetFloatingAnnouncement(ctx)
	require.NoError(t, err)
	require.False(t, a.Enabled)

	_, err = svc.UpdateFloatingAnnouncement(ctx, &model.FloatingAnnouncement{Enabled: true})
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))

	_, err = svc.UpdateFloatingAnnouncement(ctx, &model.FloatingAnnouncement{Enabled: true, Message: "Free shipping this week"})
	require.NoError(t, err)
	a, err = svc.GetFloatingAnnouncement(ctx)
	require.NoError(t, err)
	require.True(t, a.Enabled)
	require.Equal(t, "Free shipping this week", a.Message)
}
