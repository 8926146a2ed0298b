package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/model"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
)

type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, id string) (*model.Order, error)
	// UpdateOrder 整筆覆寫，last write wins
	UpdateOrder(ctx context.Context, order *model.Order) error
	ListOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, int64, error)
	CountOrders(ctx context.Context, filter model.OrderFilter) (int64, error)
	// SumOrderRevenue 排除 cancelled 訂單
	SumOrderRevenue(ctx context.Context) (float64, error)
	FindOrderByPaymentRef(ctx context.Context, method model.PaymentMethod, ref string) (*model.Order, error)
}

type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, id string) (*model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, int64, error)
	CountProducts(ctx context.Context, filter model.ProductFilter) (int64, error)
	IncrementProductCounters(ctx context.Context, id string, delta model.ProductCounterDelta) error
}

type ICategoryRepository interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategoryByID(ctx context.Context, id string) (*model.Category, error)
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]model.Category, error)
}

type ICouponRepository interface {
	CreateCoupon(ctx context.Context, coupon *model.Coupon) error
	GetCouponByID(ctx context.Context, id string) (*model.Coupon, error)
	GetCouponByCode(ctx context.Context, code string) (*model.Coupon, error)
	UpdateCoupon(ctx context.Context, coupon *model.Coupon) error
	DeleteCoupon(ctx context.Context, id string) error
	ListCoupons(ctx context.Context) ([]model.Coupon, error)
	// RedeemCoupon 條件式原子累加 uses_count，已達上限回傳 ErrCouponExhausted
	RedeemCoupon(ctx context.Context, code string) (*model.Coupon, error)
	// ReleaseCoupon 退回一次使用次數，uses_count 不會小於 0
	ReleaseCoupon(ctx context.Context, code string) error
}

type ICustomerRepository interface {
	UpsertCustomer(ctx context.Context, customer *model.Customer) error
	GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error)
	ListCustomers(ctx context.Context, filter model.CustomerFilter) ([]model.Customer, int64, error)
	CountCustomers(ctx context.Context) (int64, error)
}

type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id string) error
	ListUsersExcludingRole(ctx context.Context, role string) ([]model.User, error)

	CreatePasswordReset(ctx context.Context, reset *model.PasswordReset) error
	GetPasswordReset(ctx context.Context, id string) (*model.PasswordReset, error)
	MarkPasswordResetUsed(ctx context.Context, id string) error
}

type ISettingsRepository interface {
	GetStoreSettings(ctx context.Context) (*model.StoreSettings, error)
	UpsertStoreSettings(ctx context.Context, settings *model.StoreSettings) error

	ListPaymentGateways(ctx context.Context) ([]model.PaymentGatewayConfig, error)
	GetPaymentGateway(ctx context.Context, id string) (*model.PaymentGatewayConfig, error)
	UpsertPaymentGateway(ctx context.Context, gateway *model.PaymentGatewayConfig) error

	ListSocialLinks(ctx context.Context) ([]model.SocialLink, error)
	GetSocialLink(ctx context.Context, id string) (*model.SocialLink, error)
	CreateSocialLink(ctx context.Context, link *model.SocialLink) error
	UpdateSocialLink(ctx context.Context, link *model.SocialLink) error
	DeleteSocialLink(ctx context.Context, id string) error

	ListExternalLinks(ctx context.Context) ([]model.ExternalLink, error)
	GetExternalLink(ctx context.Context, id string) (*model.ExternalLink, error)
	CountExternalLinks(ctx context.Context) (int64, error)
	CreateExternalLink(ctx context.Context, link *model.ExternalLink) error
	UpdateExternalLink(ctx context.Context, link *model.ExternalLink) error
	DeleteExternalLink(ctx context.Context, id string) error

	GetFloatingAnnouncement(ctx context.Context) (*model.FloatingAnnouncement, error)
	UpsertFloatingAnnouncement(ctx context.Context, a *model.FloatingAnnouncement) error
}

// IStore 所有 collection 的存取入口，生命週期由 appcontext 管理
type IStore interface {
	IOrderRepository
	IProductRepository
	ICategoryRepository
	ICouponRepository
	ICustomerRepository
	IUserRepository
	ISettingsRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
