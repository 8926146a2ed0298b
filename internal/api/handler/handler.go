package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/go-playground/validator/v10"
)

// request body 上限 1MB
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 錯誤訊息使用 json 欄位名稱
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON 解析 body 並執行 validate tag 檢查，錯誤一律為 BadRequestCode
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return er.New(er.BadRequestCode, "invalid request body")
	}
	return validateStruct(v)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return er.New(er.BadRequestCode, err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldErrorMessage(fe))
	}
	return er.New(er.BadRequestCode, strings.Join(msgs, "; "))
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}

// writeError AnaError 依 code 回應，其他錯誤視為 500
func writeError(w http.ResponseWriter, err error) {
	code := er.CodeOf(err)
	api.ErrorJSON(w, int(code), err, er.ErrStrMap[code])
}

func pagingFromQuery(r *http.Request) model.Paging {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return model.NewPaging(page, limit)
}

func pagination(p model.Paging, total int64) *api.Pagination {
	return &api.Pagination{
		Page:     p.Page,
		PageSize: p.Limit,
		Total:    total,
	}
}

// queryBool 未帶參數回傳 nil，格式錯誤回傳 BadRequestCode
func queryBool(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, er.Newf(er.BadRequestCode, "%s must be a boolean", key)
	}
	return &v, nil
}

func queryFloat(r *http.Request, key string) (*float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, er.Newf(er.BadRequestCode, "%s must be a number", key)
	}
	return &v, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, er.Newf(er.BadRequestCode, "%s must be an integer", key)
	}
	return v, nil
}

// hasJSONBody 讓同一個 endpoint 同時支援 query string 與 json body
func hasJSONBody(r *http.Request) bool {
	return r.ContentLength != 0 && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
