package service

import (
	"context"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/rs/zerolog"
)

const (
	wholesaleSpendThreshold = 5000
	vipSpendThreshold       = 1000
)

type CustomerUpdate struct {
	Group *string
	Notes *string
}

type ICustomerService interface {
	ListCustomers(ctx context.Context, filter model.CustomerFilter) ([]model.Customer, int64, error)
	GetCustomer(ctx context.Context, email string) (*model.Customer, error)
	// UpdateCustomer 只能修改分組與備註
	//
	// 錯誤:
	//   - er.BadRequestCode 400: 不合法的 customer_group
	//   - er.NotFoundCode 404: 客戶不存在
	UpdateCustomer(ctx context.Context, email string, update CustomerUpdate) (*model.Customer, error)
	// RebuildFromOrders 由所有非取消訂單重建客戶彙總，回傳客戶數
	RebuildFromOrders(ctx context.Context) (int, error)
}

type CustomerService struct {
	customers db.ICustomerRepository
	orders    db.IOrderRepository
	logger    *zerolog.Logger
}

func NewCustomerService(customers db.ICustomerRepository, orders db.IOrderRepository, logger *zerolog.Logger) *CustomerService {
	if util.IsNil(customers) {
		panic("customer service initialization failed: customers repository cannot be nil")
	}
	if util.IsNil(orders) {
		panic("customer service initialization failed: orders repository cannot be nil")
	}
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &CustomerService{customers: customers, orders: orders, logger: logger}
}

func (s *CustomerService) ListCustomers(ctx context.Context, filter model.CustomerFilter) ([]model.Customer, int64, error) {
	if filter.Group != "" && !model.IsValidCustomerGroup(filter.Group) {
		return nil, 0, er.Newf(er.BadRequestCode, "invalid customer group %s", filter.Group)
	}
	customers, total, err := s.customers.ListCustomers(ctx, filter)
	if err != nil {
		return nil, 0, repoErr(err, "customer")
	}
	return customers, total, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, email string) (*model.Customer, error) {
	c, err := s.customers.GetCustomerByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, repoErr(err, "customer")
	}
	return c, nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, email string, update CustomerUpdate) (*model.Customer, error) {
	if update.Group != nil && !model.IsValidCustomerGroup(*update.Group) {
		return nil, er.Newf(er.BadRequestCode, "invalid customer group %s", *update.Group)
	}
	c, err := s.GetCustomer(ctx, email)
	if err != nil {
		return nil, err
	}
	if update.Group != nil {
		c.CustomerGroup = model.CustomerGroup(*update.Group)
	}
	if update.Notes != nil {
		c.Notes = *update.Notes
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.customers.UpsertCustomer(ctx, c); err != nil {
		return nil, repoErr(err, "customer")
	}
	return c, nil
}

func groupForSpend(spent float64) model.CustomerGroup {
	switch {
	case spent >= wholesaleSpendThreshold:
		return model.CustomerGroupWholesale
	case spent >= vipSpendThreshold:
		return model.CustomerGroupVip
	default:
		return model.CustomerGroupRegular
	}
}

func (s *CustomerService) RebuildFromOrders(ctx context.Context) (int, error) {
	orders, _, err := s.orders.ListOrders(ctx, model.OrderFilter{})
	if err != nil {
		return 0, repoErr(err, "order")
	}

	rollup := map[string]*model.Customer{}
	for _, o := range orders {
		if o.Status == model.OrderStatusCancelled || o.UserEmail == "" {
			continue
		}
		email := strings.ToLower(o.UserEmail)
		c, ok := rollup[email]
		if !ok {
			c = &model.Customer{Email: email}
			rollup[email] = c
		}
		c.TotalOrders++
		c.TotalSpent += o.Total
		if c.LastOrderAt == nil || o.CreatedAt.After(*c.LastOrderAt) {
			created := o.CreatedAt
			c.LastOrderAt = &created
			c.Name = o.UserName
			c.Phone = o.Phone
		}
	}

	now := time.Now().UTC()
	for email, c := range rollup {
		// 保留管理員備註
		if existing, err := s.customers.GetCustomerByEmail(ctx, email); err == nil {
			c.Notes = existing.Notes
		}
		c.TotalSpent = util.RoundMoney(c.TotalSpent)
		c.CustomerGroup = groupForSpend(c.TotalSpent)
		c.UpdatedAt = now
		if err := s.customers.UpsertCustomer(ctx, c); err != nil {
			return 0, repoErr(err, "customer")
		}
	}
	s.logger.Info().Int("customers", len(rollup)).Int("orders", len(orders)).Msg("customer rollup rebuilt")
	return len(rollup), nil
}
