package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/go-chi/chi/v5"
)

type SettingsHandler struct {
	settingsService service.ISettingsService
}

func NewSettingsHandler(settingsService service.ISettingsService) *SettingsHandler {
	if util.IsNil(settingsService) {
		panic("settingsService cannot be nil")
	}
	return &SettingsHandler{settingsService: settingsService}
}

// @Summary store settings
// @Tags settings
// @Produce json
// @Success 200 {object} api.Response{data=model.StoreSettings} "success"
// @Router /settings [get]
func (h *SettingsHandler) GetStoreSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.GetStoreSettings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, settings, nil)
}

// @Summary update store settings
// @Tags admin-settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param settings body dto.StoreSettingsDTO true "settings"
// @Success 200 {object} api.Response{data=model.StoreSettings} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Router /admin/settings [put]
func (h *SettingsHandler) UpdateStoreSettings(w http.ResponseWriter, r *http.Request) {
	var req dto.StoreSettingsDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	settings, err := h.settingsService.UpdateStoreSettings(r.Context(), req.ToModel())
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, settings, nil)
}

// @Summary enabled payment methods
// @Tags settings
// @Produce json
// @Success 200 {object} api.Response{data=[]service.PaymentGatewayView} "success"
// @Router /payment-methods [get]
func (h *SettingsHandler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.settingsService.ListPaymentMethods(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, methods, nil)
}

// @Summary list payment gateways
// @Description 包含停用的 gateway 與啟動時決定的 live/sandbox mode
// @Tags admin-settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=[]service.PaymentGatewayView} "success"
// @Router /admin/payment-gateways [get]
func (h *SettingsHandler) ListPaymentGateways(w http.ResponseWriter, r *http.Request) {
	gateways, err := h.settingsService.ListPaymentGateways(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, gateways, nil)
}

// @Summary update payment gateway
// @Tags admin-settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "manual | stripe | paypal | plisio | binance"
// @Param gateway body dto.PaymentGatewayDTO true "gateway"
// @Success 200 {object} api.Response{data=service.PaymentGatewayView} "success"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /admin/payment-gateways/{id} [put]
func (h *SettingsHandler) UpdatePaymentGateway(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentGatewayDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	gateway, err := h.settingsService.UpdatePaymentGateway(r.Context(), chi.URLParam(r, "id"), service.PaymentGatewayUpdate{
		DisplayName: req.DisplayName,
		Description: req.Description,
		Enabled:     req.Enabled,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, gateway, nil)
}

// @Summary active social links
// @Tags settings
// @Produce json
// @Success 200 {object} api.Response{data=[]model.SocialLink} "success"
// @Router /social-links [get]
func (h *SettingsHandler) ListActiveSocialLinks(w http.ResponseWriter, r *http.Request) {
	h.listSocialLinks(w, r, true)
}

// @Summary list social links
// @Tags admin-settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=[]model.SocialLink} "success"
// @Router /admin/social-links [get]
func (h *SettingsHandler) ListSocialLinks(w http.ResponseWriter, r *http.Request) {
	h.listSocialLinks(w, r, false)
}

func (h *SettingsHandler) listSocialLinks(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	links, err := h.settingsService.ListSocialLinks(r.Context(), activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, links, nil)
}

// @Summary create social link
// @Tags admin-settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param link body dto.SocialLinkDTO true "social link"
// @Success 201 {object} api.Response{data=model.SocialLink} "created"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Router /admin/social-links [post]
func (h *SettingsHandler) CreateSocialLink(w http.ResponseWriter, r *http.Request) {
	var req dto.SocialLinkDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	link, err := h.settingsService.CreateSocialLink(r.Context(), req.ToModel(""))
	if err != nil {
		writeError(w, err)
		return
	}
	api.CreatedJSON(w, link)
}

// @Summary update social link
// @Tags admin-settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "link id"
// @Param link body dto.SocialLinkDTO true "social link"
// @Success 200 {object} api.Response{data=model.SocialLink} "success"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /admin/social-links/{id} [put]
func (h *SettingsHandler) UpdateSocialLink(w http.ResponseWriter, r *http.Request) {
	var req dto.SocialLinkDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	link, err := h.settingsService.UpdateSocialLink(r.Context(), req.ToModel(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, link, nil)
}

// @Summary delete social link
// @Tags admin-settings
// @Produce json
// @Security BearerAuth
// @Param id path string true "link id"
// @Success 200 {object} api.Response{data=string} "success"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /admin/social-links/{id} [delete]
func (h *SettingsHandler) DeleteSocialLink(w http.ResponseWriter, r *http.Request) {
	if err := h.settingsService.DeleteSocialLink(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, "deleted", nil)
}

// @Summary list external links
// @Tags settings
// @Produce json
// @Success 200 {object} api.Response{data=[]model.ExternalLink} "success"
// @Router /external-links [get]
func (h *SettingsHandler) ListExternalLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.settingsService.ListExternalLinks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, links, nil)
}

// @Summary create external link
// @Description 最多 3 筆
// @Tags admin-settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param link body dto.ExternalLinkDTO true "external link"
// @Success 201 {object} api.Response{data=model.ExternalLink} "created"
// @Failure 400 {object} api.ResponseError{data=string} "Maximum 3 external links allowed"
// @Router /admin/external-links [post]
func (h *SettingsHandler) CreateExternalLink(w http.ResponseWriter, r *http.Request) {
	var req dto.ExternalLinkDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	link, err := h.settingsService.CreateExternalLink(r.Context(), req.ToModel(""))
	if err != nil {
		writeError(w, err)
		return
	}
	api.CreatedJSON(w, link)
}

// @Summary update external link
// @Tags admin-settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "link id"
// @Param link body dto.ExternalLinkDTO true "external link"
// @Success 200 {object} api.Response{data=model.ExternalLink} "success"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /admin/external-links/{id} [put]
func (h *SettingsHandler) UpdateExternalLink(w http.ResponseWriter, r *http.Request) {
	var req dto.ExternalLinkDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	link, err := h.settingsService.UpdateExternalLink(r.Context(), req.ToModel(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, link, nil)
}

// @Summary delete external link
// @Tags admin-settings
// @Produce json
// @Security BearerAuth
// @Param id path string true "link id"
// @Success 200 {object} api.Response{data=string} "success"
// @Failure 404 {object} api.ResponseError{data=string} "NotFoundCode"
// @Router /admin/external-links/{id} [delete]
func (h *SettingsHandler) DeleteExternalLink(w http.ResponseWriter, r *http.Request) {
	if err := h.settingsService.DeleteExternalLink(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, "deleted", nil)
}

// @Summary floating announcement
// @Tags settings
// @Produce json
// @Success 200 {object} api.Response{data=model.FloatingAnnouncement} "success"
// @Router /floating-announcement [get]
func (h *SettingsHandler) GetFloatingAnnouncement(w http.ResponseWriter, r *http.Request) {
	a, err := h.settingsService.GetFloatingAnnouncement(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, a, nil)
}

// @Summary update floating announcement
// @Tags admin-settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param announcement body dto.FloatingAnnouncementDTO true "announcement"
// @Success 200 {object} api.Response{data=model.FloatingAnnouncement} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Router /admin/floating-announcement [put]
func (h *SettingsHandler) UpdateFloatingAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req dto.FloatingAnnouncementDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	a, err := h.settingsService.UpdateFloatingAnnouncement(r.Context(), req.ToModel())
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, a, nil)
}
