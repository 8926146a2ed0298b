package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/go-chi/chi/v5"
)

// AdminHandler 後台客戶、團隊、行銷信件與儀表板
type AdminHandler struct {
	customerService  service.ICustomerService
	teamService      service.ITeamService
	bulkEmailService service.IBulkEmailService
	dashboardService service.IDashboardService
}

func NewAdminHandler(
	customerService service.ICustomerService,
	teamService service.ITeamService,
	bulkEmailService service.IBulkEmailService,
	dashboardService service.IDashboardService,
) *AdminHandler {
	if util.IsNil(customerService) {
		panic("customerService cannot be nil")
	}
	if util.IsNil(teamService) {
		panic("teamService cannot be nil")
	}
	if util.IsNil(bulkEmailService) {
		panic("bulkEmailService cannot be nil")
	}
	if util.IsNil(dashboardService) {
		panic("dashboardService cannot be nil")
	}
	return &AdminHandler{
		customerService:  customerService,
		teamService:      teamService,
		bulkEmailService: bulkEmailService,
		dashboardService: dashboardService,
	}
}

// @Summary list customers
// @Tags admin-customers
// @Produce json
// @Security BearerAuth
// @Param customer_group query string false "regular | vip | wholesale"
// @Param q query string false "name or email"
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} api.Response{data=[]model.Customer} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Router /admin/customers [get]
func (h *AdminHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.CustomerFilter{
		Group:  q.Get("customer_group"),
		Search: q.Get("q"),
		Paging: pagingFromQuery(r),
	}
	customers, total, err := h.customerService.ListCustomers(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, customers, pagination(filter.Paging, total))
}

// @Summary get customer
// @Tags admin-customers
// @Produce json
// @Security BearerAuth
// @Param email path string true "customer email"
// @Success 200 {object} api.Response{data=model.Customer} "success"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /admin/customers/{email} [get]
func (h *AdminHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customerService.GetCustomer(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, customer, nil)
}

// @Summary update customer
// @Description 只能修改分組與備註
// @Tags admin-customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param email path string true "customer email"
// @Param customer body dto.CustomerUpdateDTO true "customer"
// @Success 200 {object} api.Response{data=model.Customer} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /admin/customers/{email} [put]
func (h *AdminHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req dto.CustomerUpdateDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	customer, err := h.customerService.UpdateCustomer(r.Context(), chi.URLParam(r, "email"), service.CustomerUpdate{
		Group: req.CustomerGroup,
		Notes: req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, customer, nil)
}

// @Summary rebuild customers from orders
// @Tags admin-customers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=dto.RebuildCustomersResponse} "success"
// @Router /admin/customers/rebuild [post]
func (h *AdminHandler) RebuildCustomers(w http.ResponseWriter, r *http.Request) {
	n, err := h.customerService.RebuildFromOrders(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, dto.RebuildCustomersResponse{Customers: n}, nil)
}

// @Summary list team members
// @Tags admin-team
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=[]model.User} "success"
// @Router /admin/team [get]
func (h *AdminHandler) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.teamService.ListMembers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, members, nil)
}

// @Summary team roles
// @Tags admin-team
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=dto.TeamRolesResponse} "success"
// @Router /admin/team/roles [get]
func (h *AdminHandler) ListTeamRoles(w http.ResponseWriter, r *http.Request) {
	api.SuccessJSON(w, dto.TeamRolesResponse{Roles: h.teamService.Roles()}, nil)
}

// @Summary create team member
// @Tags admin-team
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param member body dto.TeamMemberDTO true "member"
// @Success 201 {object} api.Response{data=model.User} "created"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 409 {object} api.ResponseError{data=string} "ConflictCode"
// @Router /admin/team [post]
func (h *AdminHandler) CreateTeamMember(w http.ResponseWriter, r *http.Request) {
	var req dto.TeamMemberDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	member, err := h.teamService.CreateMember(r.Context(), service.TeamMemberInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	api.CreatedJSON(w, member)
}

// @Summary update team member
// @Tags admin-team
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "user id"
// @Param member body dto.TeamMemberUpdateDTO true "member"
// @Success 200 {object} api.Response{data=model.User} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /admin/team/{id} [put]
func (h *AdminHandler) UpdateTeamMember(w http.ResponseWriter, r *http.Request) {
	var req dto.TeamMemberUpdateDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	member, err := h.teamService.UpdateMember(r.Context(), chi.URLParam(r, "id"), service.TeamMemberUpdate{
		Name:     req.Name,
		Role:     req.Role,
		Password: req.Password,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, member, nil)
}

// @Summary delete team member
// @Tags admin-team
// @Produce json
// @Security BearerAuth
// @Param id path string true "user id"
// @Success 200 {object} api.Response{data=string} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /admin/team/{id} [delete]
func (h *AdminHandler) DeleteTeamMember(w http.ResponseWriter, r *http.Request) {
	if err := h.teamService.DeleteMember(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, "deleted", nil)
}

// @Summary bulk email
// @Description 未指定 recipients 時寄給 customer_group 分組客戶，皆未指定則寄給全部客戶
// @Tags admin-marketing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param email body dto.BulkEmailDTO true "email"
// @Success 200 {object} api.Response{data=service.BulkEmailResult} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Router /admin/bulk-email [post]
func (h *AdminHandler) SendBulkEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.BulkEmailDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.bulkEmailService.Send(r.Context(), service.BulkEmailInput{
		Subject:    req.Subject,
		Content:    req.Content,
		Recipients: req.Recipients,
		Group:      req.Group,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, result, nil)
}

// @Summary dashboard stats
// @Tags admin-dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=model.DashboardStats} "success"
// @Router /admin/dashboard/stats [get]
func (h *AdminHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, stats, nil)
}
