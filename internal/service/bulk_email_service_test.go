package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/memdb"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	mock_service "github.com/RoyceAzure/lab/storefront/internal/service/mock"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestBulkEmailSend(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	notifier := mock_service.NewMockINotifier(ctrl)
	store := memdb.NewStore()
	svc := NewBulkEmailService(store, notifier, nil)

	for _, c := range []model.Customer{
		{Email: "v1@example.com", CustomerGroup: model.CustomerGroupVip},
		{Email: "v2@example.com", CustomerGroup: model.CustomerGroupVip},
		{Email: "v3@example.com", CustomerGroup: model.CustomerGroupVip},
		{Email: "r1@example.com", CustomerGroup: model.CustomerGroupRegular},
	} {
		c := c
		require.NoError(t, store.UpsertCustomer(ctx, &c))
	}

	var mu sync.Mutex
	var got []string
	notifier.EXPECT().SendPromotional(gomock.Any(), gomock.Any(), "Sale", "<p>hi</p>").DoAndReturn(func(_ context.Context, email, _, _ string) error {
		mu.Lock()
		got = append(got, email)
		mu.Unlock()
		if email == "v2@example.com" {
			return errors.New("mailbox full")
		}
		return nil
	}).Times(3)

	res, err := svc.Send(ctx, BulkEmailInput{Subject: "Sale", Content: "<p>hi</p>", Group: string(model.CustomerGroupVip)})
	require.NoError(t, err)
	require.Equal(t, 2, res.Sent)
	require.Equal(t, 1, res.Failed)
	require.ElementsMatch(t, []string{"v1@example.com", "v2@example.com", "v3@example.com"}, got)
}

func TestBulkEmailExplicitRecipients(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	notifier := mock_service.NewMockINotifier(ctrl)
	svc := NewBulkEmailService(memdb.NewStore(), notifier, nil)

	notifier.EXPECT().SendPromotional(gomock.Any(), "a@example.com", "Hi", "Body").Return(nil).Times(1)
	notifier.EXPECT().SendPromotional(gomock.Any(), "b@example.com", "Hi", "Body").Return(nil).Times(1)

	res, err := svc.Send(ctx, BulkEmailInput{Subject: "Hi", Content: "Body", Recipients: []string{"A@example.com", "b@example.com", "a@example.com", " "}})
	require.NoError(t, err)
	require.Equal(t, 2, res.Sent)
	require.Zero(t, res.Failed)

	_, err = svc.Send(ctx, BulkEmailInput{Subject: "", Content: "Body", Recipients: []string{"a@example.com"}})
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))

	_, err = svc.Send(ctx, BulkEmailInput{Subject: "Hi", Content: "Body"})
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))

	_, err = svc.Send(ctx, BulkEmailInput{Subject: "Hi", Content: "Body", Group: "gold"})
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))
}
