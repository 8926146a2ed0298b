package api

import (
	"encoding/json"
	"errors"
	"net/http"

	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
)

type Response struct {
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func SuccessJSON(w http.ResponseWriter, data any, pagination *Pagination) {
	writeJSON(w, http.StatusOK, Response{Data: data, Pagination: pagination})
}

func CreatedJSON(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Response{Data: data})
}

// ErrorJSON 寫出錯誤，err 為 nil 時 detail 留空
func ErrorJSON(w http.ResponseWriter, status int, err error, msg string) {
	res := ResponseError{
		Code:    status,
		Message: msg,
	}
	if err != nil {
		res.Detail = detailOf(err)
	}
	writeJSON(w, status, res)
}

// AnaError 只回傳 Message，不帶 code 前綴
func detailOf(err error) string {
	var anaErr *er.AnaError
	if errors.As(err, &anaErr) {
		return anaErr.Message
	}
	return err.Error()
}
