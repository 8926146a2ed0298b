package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	categoryService service.ICategoryService
}

func NewCategoryHandler(categoryService service.ICategoryService) *CategoryHandler {
	if util.IsNil(categoryService) {
		panic("categoryService cannot be nil")
	}
	return &CategoryHandler{categoryService: categoryService}
}

// @Summary list categories
// @Tags categories
// @Produce json
// @Success 200 {object} api.Response{data=[]model.Category} "success"
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, categories, nil)
}

// @Summary create category
// @Tags admin-categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body dto.CategoryDTO true "category"
// @Success 201 {object} api.Response{data=model.Category} "created"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Router /admin/categories [post]
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	category, err := h.categoryService.CreateCategory(r.Context(), req.ToModel(""))
	if err != nil {
		writeError(w, err)
		return
	}
	api.CreatedJSON(w, category)
}

// @Summary update category
// @Tags admin-categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "category id"
// @Param category body dto.CategoryDTO true "category"
// @Success 200 {object} api.Response{data=model.Category} "success"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /admin/categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	category, err := h.categoryService.UpdateCategory(r.Context(), req.ToModel(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, category, nil)
}

// @Summary delete category
// @Tags admin-categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "category id"
// @Success 200 {object} api.Response{data=string} "success"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /admin/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categoryService.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, "deleted", nil)
}
