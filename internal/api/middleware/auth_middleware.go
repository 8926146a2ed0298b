package middleware

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/RoyceAzure/lab/storefront/internal/util"
)

// 驗證是ctx是否有token payload
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if util.GetTokenPayloadFromContext(r.Context()) == nil {
			api.ErrorJSON(w, int(er.UnauthenticatedCode), er.New(er.UnauthenticatedCode, "unauthenticated"), er.ErrStrMap[er.UnauthenticatedCode])
			return
		}
		next.ServeHTTP(w, r)
	})
}

type Authorizer struct {
	permissions *config.PermissionConfig
}

func NewAuthorizer(permissions *config.PermissionConfig) *Authorizer {
	if util.IsNil(permissions) {
		panic("NewAuthorizer: permissions cannot be nil")
	}
	return &Authorizer{permissions: permissions}
}

/*
需放在 AuthMiddleware 之後
admin 擁有全部權限，customer 不能進入後台
其他角色依 permission.yaml 判斷 resource + action
*/
func (a *Authorizer) RequirePermission(resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload := util.GetTokenPayloadFromContext(r.Context())
			if payload == nil {
				api.ErrorJSON(w, int(er.UnauthenticatedCode), er.New(er.UnauthenticatedCode, "unauthenticated"), er.ErrStrMap[er.UnauthenticatedCode])
				return
			}
			if !a.allowed(payload.Role, resource, action) {
				api.ErrorJSON(w, int(er.UnauthorizedCode), er.Newf(er.UnauthorizedCode, "role %s cannot %s %s", payload.Role, action, resource), er.ErrStrMap[er.UnauthorizedCode])
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *Authorizer) allowed(role, resource, action string) bool {
	switch role {
	case constants.RoleAdmin:
		return true
	case constants.RoleCustomer, "":
		return false
	}
	return a.permissions.Allowed(role, resource, action)
}
