package memdb

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
)

// Store 記憶體版本，未設定 MONGO_URL 時使用，也給測試使用
// 回傳值一律是 copy，避免呼叫端改到內部資料
type Store struct {
	mu sync.RWMutex

	orders         map[string]model.Order
	products       map[string]model.Product
	categories     map[string]model.Category
	coupons        map[string]model.Coupon
	customers      map[string]model.Customer
	users          map[string]model.User
	passwordResets map[string]model.PasswordReset
	settings       *model.StoreSettings
	gateways       map[string]model.PaymentGatewayConfig
	socialLinks    map[string]model.SocialLink
	externalLinks  map[string]model.ExternalLink
	announcement   *model.FloatingAnnouncement
}

var _ db.IStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		orders:         map[string]model.Order{},
		products:       map[string]model.Product{},
		categories:     map[string]model.Category{},
		coupons:        map[string]model.Coupon{},
		customers:      map[string]model.Customer{},
		users:          map[string]model.User{},
		passwordResets: map[string]model.PasswordReset{},
		gateways:       map[string]model.PaymentGatewayConfig{},
		socialLinks:    map[string]model.SocialLink{},
		externalLinks:  map[string]model.ExternalLink{},
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}

func now() time.Time {
	return time.Now().UTC()
}

func page[T any](items []T, p model.Paging) []T {
	if p.Limit <= 0 {
		return items
	}
	start := p.Skip()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func sortStable[T any](items []T, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
