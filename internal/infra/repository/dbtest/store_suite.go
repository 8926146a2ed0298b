// Package dbtest 提供 db.IStore 共用的行為測試，mongo 與 memdb 都跑同一組
package dbtest

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type StoreSuite struct {
	suite.Suite
	NewStore func() db.IStore
	store    db.IStore
	ctx      context.Context
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.NewStore()
}

func (s *StoreSuite) newOrder(status model.OrderStatus, total float64, created time.Time) *model.Order {
	return &model.Order{
		ID:            uuid.NewString(),
		OrderNumber:   "ORD-" + uuid.NewString()[:6],
		UserEmail:     "buyer@example.com",
		UserName:      "Buyer",
		Items:         []model.OrderItem{{ProductID: "p1", Name: "Mug", Price: total, Quantity: 1}},
		PaymentMethod: model.PaymentMethodManual,
		Subtotal:      total,
		Total:         total,
		Status:        status,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func (s *StoreSuite) TestOrderCRUD() {
	order := s.newOrder(model.OrderStatusPending, 50, time.Now().UTC().Truncate(time.Millisecond))
	s.Require().NoError(s.store.CreateOrder(s.ctx, order))

	got, err := s.store.GetOrderByID(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Require().Equal(order.OrderNumber, got.OrderNumber)
	s.Require().Len(got.Items, 1)

	got.Status = model.OrderStatusShipped
	got.TrackingNumber = "1Z999"
	s.Require().NoError(s.store.UpdateOrder(s.ctx, got))

	again, err := s.store.GetOrderByID(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Require().Equal(model.OrderStatusShipped, again.Status)
	s.Require().Equal("1Z999", again.TrackingNumber)

	_, err = s.store.GetOrderByID(s.ctx, "missing")
	s.Require().ErrorIs(err, db.ErrNotFound)
}

func (s *StoreSuite) TestListOrdersAndRevenue() {
	base := time.Now().UTC().Truncate(time.Millisecond)
	s.Require().NoError(s.store.CreateOrder(s.ctx, s.newOrder(model.OrderStatusPending, 10, base)))
	s.Require().NoError(s.store.CreateOrder(s.ctx, s.newOrder(model.OrderStatusProcessing, 20, base.Add(time.Minute))))
	s.Require().NoError(s.store.CreateOrder(s.ctx, s.newOrder(model.OrderStatusCancelled, 40, base.Add(2*time.Minute))))

	orders, total, err := s.store.ListOrders(s.ctx, model.OrderFilter{Paging: model.NewPaging(1, 2)})
	s.Require().NoError(err)
	s.Require().EqualValues(3, total)
	s.Require().Len(orders, 2)
	s.Require().Equal(model.OrderStatusCancelled, orders[0].Status)

	pending, err := s.store.CountOrders(s.ctx, model.OrderFilter{Status: string(model.OrderStatusPending)})
	s.Require().NoError(err)
	s.Require().EqualValues(1, pending)

	revenue, err := s.store.SumOrderRevenue(s.ctx)
	s.Require().NoError(err)
	s.Require().InDelta(30.0, revenue, 0.001)
}

func (s *StoreSuite) TestFindOrderByPaymentRef() {
	order := s.newOrder(model.OrderStatusPending, 15, time.Now().UTC())
	order.PaymentMethod = model.PaymentMethodStripe
	order.SetPaymentReference("plink_123", "https://buy.stripe.com/test")
	s.Require().NoError(s.store.CreateOrder(s.ctx, order))

	got, err := s.store.FindOrderByPaymentRef(s.ctx, model.PaymentMethodStripe, "plink_123")
	s.Require().NoError(err)
	s.Require().Equal(order.ID, got.ID)

	_, err = s.store.FindOrderByPaymentRef(s.ctx, model.PaymentMethodPaypal, "plink_123")
	s.Require().ErrorIs(err, db.ErrNotFound)
}

func (s *StoreSuite) TestProductFilterAndCounters() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	onSale := true
	products := []model.Product{
		{ID: uuid.NewString(), Name: "Blue Mug", Category: "kitchen", Price: 12, Stock: 3, OnSale: true, Active: true, Tags: []string{"ceramic"}, SalesCount: 5, CreatedAt: now},
		{ID: uuid.NewString(), Name: "Red Mug", Category: "kitchen", Price: 8, Stock: 50, Active: true, SalesCount: 9, CreatedAt: now.Add(time.Second)},
		{ID: uuid.NewString(), Name: "Poster", Category: "decor", Price: 30, Stock: 10, OnSale: true, Active: true, Description: "ceramic look", CreatedAt: now.Add(2 * time.Second)},
	}
	for i := range products {
		s.Require().NoError(s.store.CreateProduct(s.ctx, &products[i]))
	}

	list, total, err := s.store.ListProducts(s.ctx, model.ProductFilter{Category: "kitchen", SortBy: model.ProductSortPrice})
	s.Require().NoError(err)
	s.Require().EqualValues(2, total)
	s.Require().Equal("Red Mug", list[0].Name)

	list, _, err = s.store.ListProducts(s.ctx, model.ProductFilter{OnSale: &onSale, SortBy: model.ProductSortPrice, SortDesc: true})
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Require().Equal("Poster", list[0].Name)

	list, _, err = s.store.ListProducts(s.ctx, model.ProductFilter{SearchQuery: "CERAMIC"})
	s.Require().NoError(err)
	s.Require().Len(list, 2)

	list, _, err = s.store.ListProducts(s.ctx, model.ProductFilter{SortBy: model.ProductSortSalesCount, SortDesc: true, Paging: model.Paging{Page: 1, Limit: 1}})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Require().Equal("Red Mug", list[0].Name)

	low := 5
	n, err := s.store.CountProducts(s.ctx, model.ProductFilter{MaxStock: &low})
	s.Require().NoError(err)
	s.Require().EqualValues(1, n)

	s.Require().NoError(s.store.IncrementProductCounters(s.ctx, products[0].ID, model.ProductCounterDelta{Views: 1, Sales: 2, Stock: -2}))
	got, err := s.store.GetProductByID(s.ctx, products[0].ID)
	s.Require().NoError(err)
	s.Require().Equal(1, got.ViewCount)
	s.Require().Equal(7, got.SalesCount)
	s.Require().Equal(1, got.Stock)

	s.Require().NoError(s.store.DeleteProduct(s.ctx, products[2].ID))
	s.Require().ErrorIs(s.store.DeleteProduct(s.ctx, products[2].ID), db.ErrNotFound)
}

func (s *StoreSuite) TestCouponRedeemIsCapped() {
	coupon := &model.Coupon{
		ID:            uuid.NewString(),
		Code:          "LIMIT5",
		DiscountType:  model.DiscountTypeFixed,
		DiscountValue: 5,
		MaxUses:       5,
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}
	s.Require().NoError(s.store.CreateCoupon(s.ctx, coupon))

	dup := *coupon
	dup.ID = uuid.NewString()
	s.Require().ErrorIs(s.store.CreateCoupon(s.ctx, &dup), db.ErrDuplicateKey)

	var wg sync.WaitGroup
	var ok, exhausted atomic.Int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.RedeemCoupon(s.ctx, "LIMIT5")
			switch err {
			case nil:
				ok.Add(1)
			case db.ErrCouponExhausted:
				exhausted.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Require().EqualValues(5, ok.Load())
	s.Require().EqualValues(15, exhausted.Load())

	got, err := s.store.GetCouponByCode(s.ctx, "LIMIT5")
	s.Require().NoError(err)
	s.Require().Equal(5, got.UsesCount)

	_, err = s.store.RedeemCoupon(s.ctx, "NOPE")
	s.Require().ErrorIs(err, db.ErrNotFound)

	s.Require().NoError(s.store.ReleaseCoupon(s.ctx, "LIMIT5"))
	got, err = s.store.GetCouponByCode(s.ctx, "LIMIT5")
	s.Require().NoError(err)
	s.Require().Equal(4, got.UsesCount)
	_, err = s.store.RedeemCoupon(s.ctx, "LIMIT5")
	s.Require().NoError(err)

	s.Require().ErrorIs(s.store.ReleaseCoupon(s.ctx, "NOPE"), db.ErrNotFound)
}

func (s *StoreSuite) TestReleaseCouponStopsAtZero() {
	coupon := &model.Coupon{ID: uuid.NewString(), Code: "FRESH", DiscountType: model.DiscountTypeFixed, DiscountValue: 1, Active: true, MaxUses: 1}
	s.Require().NoError(s.store.CreateCoupon(s.ctx, coupon))
	s.Require().NoError(s.store.ReleaseCoupon(s.ctx, "FRESH"))
	got, err := s.store.GetCouponByID(s.ctx, coupon.ID)
	s.Require().NoError(err)
	s.Require().Equal(0, got.UsesCount)
}

func (s *StoreSuite) TestCouponUnlimited() {
	coupon := &model.Coupon{ID: uuid.NewString(), Code: "FOREVER", DiscountType: model.DiscountTypePercentage, DiscountValue: 10, Active: true}
	s.Require().NoError(s.store.CreateCoupon(s.ctx, coupon))
	for i := 0; i < 3; i++ {
		_, err := s.store.RedeemCoupon(s.ctx, "FOREVER")
		s.Require().NoError(err)
	}
	got, err := s.store.GetCouponByID(s.ctx, coupon.ID)
	s.Require().NoError(err)
	s.Require().Equal(3, got.UsesCount)
}

func (s *StoreSuite) TestUsersAndPasswordReset() {
	user := &model.User{ID: uuid.NewString(), Email: "amy@example.com", Name: "Amy", Role: "customer", IsActive: true, CreatedAt: time.Now().UTC()}
	s.Require().NoError(s.store.CreateUser(s.ctx, user))

	dup := *user
	dup.ID = uuid.NewString()
	s.Require().ErrorIs(s.store.CreateUser(s.ctx, &dup), db.ErrDuplicateKey)

	staff := &model.User{ID: uuid.NewString(), Email: "staff@example.com", Role: "support", IsActive: true, CreatedAt: time.Now().UTC()}
	s.Require().NoError(s.store.CreateUser(s.ctx, staff))

	team, err := s.store.ListUsersExcludingRole(s.ctx, "customer")
	s.Require().NoError(err)
	s.Require().Len(team, 1)
	s.Require().Equal(staff.ID, team[0].ID)

	got, err := s.store.GetUserByEmail(s.ctx, "amy@example.com")
	s.Require().NoError(err)
	s.Require().Equal(user.ID, got.ID)

	reset := &model.PasswordReset{ID: "tok", UserID: user.ID, Email: user.Email, ExpiresAt: time.Now().Add(time.Hour).UTC()}
	s.Require().NoError(s.store.CreatePasswordReset(s.ctx, reset))
	s.Require().NoError(s.store.MarkPasswordResetUsed(s.ctx, "tok"))
	s.Require().ErrorIs(s.store.MarkPasswordResetUsed(s.ctx, "tok"), db.ErrNotFound)
}

func (s *StoreSuite) TestSettingsSingletonsAndLinks() {
	_, err := s.store.GetStoreSettings(s.ctx)
	s.Require().ErrorIs(err, db.ErrNotFound)

	settings := model.DefaultStoreSettings()
	settings.StoreName = "Acme"
	s.Require().NoError(s.store.UpsertStoreSettings(s.ctx, &settings))
	settings.Currency = "EUR"
	s.Require().NoError(s.store.UpsertStoreSettings(s.ctx, &settings))

	got, err := s.store.GetStoreSettings(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal("Acme", got.StoreName)
	s.Require().Equal("EUR", got.Currency)

	for i := 0; i < 3; i++ {
		s.Require().NoError(s.store.CreateExternalLink(s.ctx, &model.ExternalLink{ID: uuid.NewString(), Title: "link", URL: "https://example.com", SortOrder: i}))
	}
	n, err := s.store.CountExternalLinks(s.ctx)
	s.Require().NoError(err)
	s.Require().EqualValues(3, n)

	s.Require().NoError(s.store.UpsertFloatingAnnouncement(s.ctx, &model.FloatingAnnouncement{Enabled: true, Message: "Free shipping"}))
	a, err := s.store.GetFloatingAnnouncement(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal("Free shipping", a.Message)

	s.Require().NoError(s.store.UpsertPaymentGateway(s.ctx, &model.PaymentGatewayConfig{ID: "stripe", DisplayName: "Card", Enabled: false}))
	gw, err := s.store.GetPaymentGateway(s.ctx, "stripe")
	s.Require().NoError(err)
	s.Require().False(gw.Enabled)
}

func (s *StoreSuite) TestCustomers() {
	s.Require().NoError(s.store.UpsertCustomer(s.ctx, &model.Customer{Email: "a@x.com", Name: "A", TotalSpent: 1500, CustomerGroup: model.CustomerGroupVip}))
	s.Require().NoError(s.store.UpsertCustomer(s.ctx, &model.Customer{Email: "b@x.com", Name: "B", TotalSpent: 50, CustomerGroup: model.CustomerGroupRegular}))
	s.Require().NoError(s.store.UpsertCustomer(s.ctx, &model.Customer{Email: "b@x.com", Name: "B", TotalSpent: 60, CustomerGroup: model.CustomerGroupRegular}))

	list, total, err := s.store.ListCustomers(s.ctx, model.CustomerFilter{})
	s.Require().NoError(err)
	s.Require().EqualValues(2, total)
	s.Require().Equal("a@x.com", list[0].Email)

	list, _, err = s.store.ListCustomers(s.ctx, model.CustomerFilter{Group: "regular"})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Require().InDelta(60.0, list[0].TotalSpent, 0.001)
}
