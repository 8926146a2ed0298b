package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/internal/util"
)

type AuthHandler struct {
	authService service.IAuthService
}

func NewAuthHandler(authService service.IAuthService) *AuthHandler {
	if util.IsNil(authService) {
		panic("authService cannot be nil")
	}
	return &AuthHandler{
		authService: authService,
	}
}

// @Summary register
// @Tags auth
// @Accept json
// @Produce json
// @Param user body dto.RegisterDTO true "register info"
// @Success 201 {object} api.Response{data=service.LoginResponse} "created"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 429 {object} api.ResponseError{data=string} "TooManyRequestsCode"
// @Router /auth/register [post]
func (a *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := a.authService.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	api.CreatedJSON(w, res)
}

// @Summary email and password login
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginDTO true "email and password"
// @Success 200 {object} api.Response{data=service.LoginResponse} "success"
// @Failure 401 {object} api.ResponseError{data=string} "UnauthenticatedCode"
// @Failure 429 {object} api.ResponseError{data=string} "TooManyRequestsCode"
// @Router /auth/login [post]
func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := a.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, res, nil)
}

// @Summary google login
// @use google idtoken to login
// @Tags auth
// @Accept json
// @Produce json
// @Param id_token body dto.GoogleLoginDTO true "google id token"
// @Success 200 {object} api.Response{data=service.LoginResponse} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 401 {object} api.ResponseError{data=string} "UnauthenticatedCode"
// @Router /auth/google [post]
func (a *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.GoogleLoginDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := a.authService.GoogleLogin(r.Context(), req.IdToken)
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, res, nil)
}

// @Summary facebook login
// @Tags auth
// @Accept json
// @Produce json
// @Param access_token body dto.FacebookLoginDTO true "facebook access token"
// @Success 200 {object} api.Response{data=service.LoginResponse} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Failure 401 {object} api.ResponseError{data=string} "UnauthenticatedCode"
// @Router /auth/facebook [post]
func (a *AuthHandler) FacebookLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.FacebookLoginDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := a.authService.FacebookLogin(r.Context(), req.AccessToken)
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, res, nil)
}

// @Summary me
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=model.User} "success"
// @Failure 401 {object} api.ResponseError{data=string} "UnauthenticatedCode"
// @Router /auth/me [get]
func (a *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := a.authService.Me(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, user, nil)
}

// @Summary forgot password
// @Description email 不存在也回傳成功
// @Tags auth
// @Accept json
// @Produce json
// @Param email body dto.ForgotPasswordDTO true "email"
// @Success 200 {object} api.Response{data=string} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Router /auth/forgot-password [post]
func (a *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := a.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, "If the email exists, a reset link has been sent", nil)
}

// @Summary reset password
// @Tags auth
// @Accept json
// @Produce json
// @Param reset body dto.ResetPasswordDTO true "token and new password"
// @Success 200 {object} api.Response{data=string} "success"
// @Failure 400 {object} api.ResponseError{data=string} "BadRequestCode"
// @Router /auth/reset-password [post]
func (a *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := a.authService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeError(w, err)
		return
	}
	api.SuccessJSON(w, "password has been reset", nil)
}
