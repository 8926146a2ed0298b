package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	productService service.IProductService
}

func NewProductHandler(productService service.IProductService) *ProductHandler {
	if util.IsNil(productService) {
		panic("productService cannot be nil")
	}
	return &ProductHandler{
		productService: productService,
	}
}

// productFilterFromQuery 解析列表查詢參數
// category, on_sale, is_new, best_seller, featured, min_price, max_price, sort_by, sort_order, page, limit
func productFilterFromQuery(r *http.Request) (model.ProductFilter, error) {
	q := r.URL.Query()
	filter := model.ProductFilter{
		Category: q.Get("category"),
		SortBy:   model.ProductSortField(q.Get("sort_by")),
		Paging:   pagingFromQuery(r),
	}

	var err error
	if filter.OnSale, err = queryBool(r, "on_sale"); err != nil {
		return filter, err
	}
	if filter.IsNew, err = queryBool(r, "is_new"); err != nil {
		return filter, err
	}
	if filter.BestSeller, err = queryBool(r, "best_seller"); err != nil {
		return filter, err
	}
	if filter.Featured, err = queryBool(r, "featured"); err != nil {
		return filter, err
	}
	if filter.MinPrice, err = queryFloat(r, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = queryFloat(r, "max_price"); err != nil {
		return filter, err
	}

	sortOrder := q.Get("sort_order")
	if sortOrder == "" {
		sortOrder = string(constants.DefaultSortOrder)
	}
	if !constants.IsValidSortOrderEnum(sortOrder) {
		return filter, er.Newf(er.BadRequestCode, "invalid sort_order %s", sortOrder)
	}
	filter.SortDesc = constants.SortOrderEnum(sortOrder) == constants.SortOrderDesc
	return filter, nil
}

// @Summary list products
// @Description 只列出上架商品
// @Tags products
// @Produce json
// @Param category query string false "category"
// @Param on_sale query bool false "on sale"
// @Param is_new query bool false "is new"
// @Param best_seller query bool false "best seller"
// @Param sort_by query string false "created_at | price | name | rating | sales_count | view_count"
// @Param sort_order query string false "asc | desc"
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} api.Response{data=[]model.Product} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 500 {object} api.ResponseError{data=string} "Internal server error"
// @Router /products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := productFilterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	products, total, err := h.productService.ListProducts(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, products, pagination(filter.Paging, total))
}

// @Summary search products
// @Tags products
// @Produce json
// @Param q query string true "keyword"
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} api.Response{data=[]model.Product} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Router /products/search [get]
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	paging := pagingFromQuery(r)
	products, total, err := h.productService.SearchProducts(r.Context(), r.URL.Query().Get("q"), paging)
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, products, pagination(paging, total))
}

// @Summary best sellers
// @Tags products
// @Produce json
// @Param limit query int false "limit, default 8"
// @Success 200 {object} api.Response{data=[]model.Product} "success"
// @Router /products/best-sellers [get]
func (h *ProductHandler) BestSellers(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", constants.DefaultBestSellerLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	products, err := h.productService.BestSellers(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, products, nil)
}

// @Summary featured products
// @Tags products
// @Produce json
// @Param limit query int false "limit, default 8"
// @Success 200 {object} api.Response{data=[]model.Product} "success"
// @Router /products/featured [get]
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", constants.DefaultBestSellerLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	products, err := h.productService.Featured(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, products, nil)
}

// @Summary get product
// @Tags products
// @Produce json
// @Param id path string true "product id"
// @Success 200 {object} api.Response{data=model.Product} "success"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, product, nil)
}

// @Summary admin list products
// @Description 包含下架商品
// @Tags admin-products
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} api.Response{data=[]model.Product} "success"
// @Failure 401 {object} api.ResponseError{data=string} "UnauthenticatedCode"
// @Failure 403 {object} api.ResponseError{data=string} "UnauthorizedCode"
// @Router /admin/products [get]
func (h *ProductHandler) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := productFilterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	filter.SearchQuery = r.URL.Query().Get("q")

	products, total, err := h.productService.AdminListProducts(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, products, pagination(filter.Paging, total))
}

// @Summary admin get product
// @Tags admin-products
// @Produce json
// @Security BearerAuth
// @Param id path string true "product id"
// @Success 200 {object} api.Response{data=model.Product} "success"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /admin/products/{id} [get]
func (h *ProductHandler) AdminGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.AdminGetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, product, nil)
}

// @Summary create product
// @Tags admin-products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body dto.ProductDTO true "product"
// @Success 201 {object} api.Response{data=model.Product} "created"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 409 {object} api.ResponseError{data=string} "ConflictCode"
// @Router /admin/products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	product, err := h.productService.CreateProduct(r.Context(), req.ToModel(""))
	if err != nil {
		writeError(w, err)
		return
	}
	api.CreatedJSON(w, product)
}

// @Summary update product
// @Tags admin-products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "product id"
// @Param product body dto.ProductDTO true "product"
// @Success 200 {object} api.Response{data=model.Product} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /admin/products/{id} [put]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	product, err := h.productService.UpdateProduct(r.Context(), req.ToModel(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, product, nil)
}

// @Summary delete product
// @Tags admin-products
// @Produce json
// @Security BearerAuth
// @Param id path string true "product id"
// @Success 200 {object} api.Response{data=string} "success"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /admin/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.productService.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, "deleted", nil)
}
