package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/google/uuid"
)

const (
	MsgCouponNotFound   = "Invalid coupon code"
	MsgCouponInactive   = "Coupon is not active"
	MsgCouponNotStarted = "Coupon is not yet valid"
	MsgCouponExpired    = "Coupon has expired"
	MsgCouponMinimum    = "Minimum purchase amount not met"
	MsgCouponExhausted  = "Coupon usage limit reached"
	MsgCouponScope      = "Coupon does not apply to the items in your cart"
	MsgCouponApplied    = "Coupon applied"
)

type CouponValidation struct {
	Valid          bool          `json:"valid"`
	DiscountAmount float64       `json:"discount_amount"`
	Message        string        `json:"message"`
	Coupon         *model.Coupon `json:"coupon,omitempty"`
}

type ICouponService interface {
	// Validate 驗證優惠碼並計算折扣，不會累加使用次數
	// 驗證失敗以 Valid=false 與 Message 表示，不回傳 error
	//
	// 錯誤:
	//   - er.InternalErrorCode 500: 資料庫錯誤
	Validate(ctx context.Context, code string, cartTotal float64, items []model.OrderItem) (*CouponValidation, error)
	// Redeem 原子累加使用次數
	//
	// 錯誤:
	//   - er.BadRequestCode 400: 優惠碼不存在或已達使用上限
	Redeem(ctx context.Context, code string) (*model.Coupon, error)
	// Release 退回 Redeem 累加的次數，用於訂單建立失敗
	Release(ctx context.Context, code string) error
	ListCoupons(ctx context.Context) ([]model.Coupon, error)
	GetCoupon(ctx context.Context, id string) (*model.Coupon, error)
	CreateCoupon(ctx context.Context, coupon *model.Coupon) (*model.Coupon, error)
	UpdateCoupon(ctx context.Context, coupon *model.Coupon) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, id string) error
}

type CouponService struct {
	repo db.ICouponRepository
	now  func() time.Time
}

func NewCouponService(repo db.ICouponRepository) *CouponService {
	if util.IsNil(repo) {
		panic("coupon service initialization failed: repo cannot be nil")
	}
	return &CouponService{repo: repo, now: time.Now}
}

func invalidCoupon(msg string) *CouponValidation {
	return &CouponValidation{Valid: false, Message: msg}
}

func (c *CouponService) Validate(ctx context.Context, code string, cartTotal float64, items []model.OrderItem) (*CouponValidation, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return invalidCoupon(MsgCouponNotFound), nil
	}

	coupon, err := c.repo.GetCouponByCode(ctx, code)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return invalidCoupon(MsgCouponNotFound), nil
		}
		return nil, repoErr(err, "coupon")
	}

	now := c.now()
	switch {
	case !coupon.Active:
		return invalidCoupon(MsgCouponInactive), nil
	case coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom):
		return invalidCoupon(MsgCouponNotStarted), nil
	case coupon.ValidUntil != nil && now.After(*coupon.ValidUntil):
		return invalidCoupon(MsgCouponExpired), nil
	case cartTotal < coupon.MinimumPurchase:
		return invalidCoupon(MsgCouponMinimum), nil
	case coupon.Exhausted():
		return invalidCoupon(MsgCouponExhausted), nil
	case len(items) > 0 && coupon.Scoped() && !couponMatchesAny(coupon, items):
		return invalidCoupon(MsgCouponScope), nil
	}

	return &CouponValidation{
		Valid:          true,
		DiscountAmount: CouponDiscount(coupon, cartTotal),
		Message:        MsgCouponApplied,
		Coupon:         coupon,
	}, nil
}

// 任一品項符合商品或分類即可
func couponMatchesAny(c *model.Coupon, items []model.OrderItem) bool {
	for _, it := range items {
		if slices.Contains(c.ApplicableProducts, it.ProductID) {
			return true
		}
		if it.Category != "" && slices.Contains(c.ApplicableCategories, it.Category) {
			return true
		}
	}
	return false
}

func (c *CouponService) Redeem(ctx context.Context, code string) (*model.Coupon, error) {
	coupon, err := c.repo.RedeemCoupon(ctx, code)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrCouponExhausted):
			return nil, er.New(er.BadRequestCode, MsgCouponExhausted)
		case errors.Is(err, db.ErrNotFound):
			return nil, er.New(er.BadRequestCode, MsgCouponNotFound)
		}
		return nil, repoErr(err, "coupon")
	}
	return coupon, nil
}

func (c *CouponService) Release(ctx context.Context, code string) error {
	if err := c.repo.ReleaseCoupon(ctx, code); err != nil {
		return repoErr(err, "coupon")
	}
	return nil
}

func (c *CouponService) ListCoupons(ctx context.Context) ([]model.Coupon, error) {
	coupons, err := c.repo.ListCoupons(ctx)
	if err != nil {
		return nil, repoErr(err, "coupon")
	}
	return coupons, nil
}

func (c *CouponService) GetCoupon(ctx context.Context, id string) (*model.Coupon, error) {
	coupon, err := c.repo.GetCouponByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "coupon")
	}
	return coupon, nil
}

func validateCouponFields(coupon *model.Coupon) error {
	if strings.TrimSpace(coupon.Code) == "" {
		return er.New(er.BadRequestCode, "coupon code is required")
	}
	switch coupon.DiscountType {
	case model.DiscountTypePercentage:
		if coupon.DiscountValue > 100 {
			return er.New(er.BadRequestCode, "percentage discount cannot exceed 100")
		}
	case model.DiscountTypeFixed:
	default:
		return er.New(er.BadRequestCode, "discount_type must be percentage or fixed")
	}
	if coupon.DiscountValue <= 0 {
		return er.New(er.BadRequestCode, "discount_value must be greater than 0")
	}
	if coupon.MaxUses < 0 || coupon.MinimumPurchase < 0 {
		return er.New(er.BadRequestCode, "max_uses and minimum_purchase cannot be negative")
	}
	if coupon.ValidFrom != nil && coupon.ValidUntil != nil && coupon.ValidUntil.Before(*coupon.ValidFrom) {
		return er.New(er.BadRequestCode, "valid_until must be after valid_from")
	}
	return nil
}

func (c *CouponService) CreateCoupon(ctx context.Context, coupon *model.Coupon) (*model.Coupon, error) {
	coupon.Code = strings.TrimSpace(coupon.Code)
	if err := validateCouponFields(coupon); err != nil {
		return nil, err
	}
	now := c.now().UTC()
	coupon.ID = uuid.NewString()
	coupon.UsesCount = 0
	coupon.CreatedAt = now
	coupon.UpdatedAt = now
	if coupon.ApplicableCategories == nil {
		coupon.ApplicableCategories = []string{}
	}
	if coupon.ApplicableProducts == nil {
		coupon.ApplicableProducts = []string{}
	}

	if err := c.repo.CreateCoupon(ctx, coupon); err != nil {
		return nil, repoErr(err, "coupon code")
	}
	return coupon, nil
}

// UpdateCoupon uses_count 以資料庫為準，不接受外部修改
func (c *CouponService) UpdateCoupon(ctx context.Context, coupon *model.Coupon) (*model.Coupon, error) {
	existing, err := c.repo.GetCouponByID(ctx, coupon.ID)
	if err != nil {
		return nil, repoErr(err, "coupon")
	}
	coupon.Code = strings.TrimSpace(coupon.Code)
	if err := validateCouponFields(coupon); err != nil {
		return nil, err
	}
	if coupon.Code != existing.Code {
		other, err := c.repo.GetCouponByCode(ctx, coupon.Code)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return nil, repoErr(err, "coupon")
		}
		if other != nil {
			return nil, er.New(er.ConflictCode, "coupon code already exists")
		}
	}

	coupon.UsesCount = existing.UsesCount
	coupon.CreatedAt = existing.CreatedAt
	coupon.UpdatedAt = c.now().UTC()
	if err := c.repo.UpdateCoupon(ctx, coupon); err != nil {
		return nil, repoErr(err, "coupon code")
	}
	return coupon, nil
}

func (c *CouponService) DeleteCoupon(ctx context.Context, id string) error {
	return repoErr(c.repo.DeleteCoupon(ctx, id), "coupon")
}
