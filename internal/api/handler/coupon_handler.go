package handler

import (
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/go-chi/chi/v5"
)

type CouponHandler struct {
	couponService service.ICouponService
}

func NewCouponHandler(couponService service.ICouponService) *CouponHandler {
	if util.IsNil(couponService) {
		panic("couponService cannot be nil")
	}
	return &CouponHandler{couponService: couponService}
}

// @Summary validate coupon
// @Description 驗證失敗回傳 valid=false 與 message，不會累加使用次數；參數可用 query string 或 json body
// @Tags coupons
// @Accept json
// @Produce json
// @Param code query string false "coupon code"
// @Param cart_total query number false "cart total"
// @Param coupon body dto.ValidateCouponDTO false "coupon"
// @Success 200 {object} api.Response{data=service.CouponValidation} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 429 {object} api.ResponseError{data=string} "TooManyRequestsCode"
// @Router /coupons/validate [post]
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req dto.ValidateCouponDTO
	if hasJSONBody(r) {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
	} else {
		q := r.URL.Query()
		req.Code = q.Get("code")
		if raw := q.Get("cart_total"); raw != "" {
			total, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				writeError(w, er.New(er.BadRequestCode, "cart_total must be a number"))
				return
			}
			req.CartTotal = total
		}
		if err := validateStruct(&req); err != nil {
			writeError(w, err)
			return
		}
	}

	result, err := h.couponService.Validate(r.Context(), req.Code, req.CartTotal, req.OrderItems())
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, result, nil)
}

// @Summary list coupons
// @Tags admin-coupons
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=[]model.Coupon} "success"
// @Router /admin/coupons [get]
func (h *CouponHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.couponService.ListCoupons(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, coupons, nil)
}

// @Summary get coupon
// @Tags admin-coupons
// @Produce json
// @Security BearerAuth
// @Param id path string true "coupon id"
// @Success 200 {object} api.Response{data=model.Coupon} "success"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /admin/coupons/{id} [get]
func (h *CouponHandler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	coupon, err := h.couponService.GetCoupon(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, coupon, nil)
}

// @Summary create coupon
// @Tags admin-coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param coupon body dto.CouponDTO true "coupon"
// @Success 201 {object} api.Response{data=model.Coupon} "created"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 409 {object} api.ResponseError{data=string} "ConflictCode"
// @Router /admin/coupons [post]
func (h *CouponHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req dto.CouponDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	coupon, err := h.couponService.CreateCoupon(r.Context(), req.ToModel(""))
	if err != nil {
		writeError(w, err)
		return
	}
	api.CreatedJSON(w, coupon)
}

// @Summary update coupon
// @Tags admin-coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "coupon id"
// @Param coupon body dto.CouponDTO true "coupon"
// @Success 200 {object} api.Response{data=model.Coupon} "success"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /admin/coupons/{id} [put]
func (h *CouponHandler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	var req dto.CouponDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	coupon, err := h.couponService.UpdateCoupon(r.Context(), req.ToModel(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, coupon, nil)
}

// @Summary delete coupon
// @Tags admin-coupons
// @Produce json
// @Security BearerAuth
// @Param id path string true "coupon id"
// @Success 200 {object} api.Response{data=string} "success"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /admin/coupons/{id} [delete]
func (h *CouponHandler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.couponService.DeleteCoupon(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, "deleted", nil)
}
