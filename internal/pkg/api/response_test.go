package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/stretchr/testify/require"
)

func TestErrorJSONUsesAnaErrorMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorJSON(rec, http.StatusBadRequest, er.New(er.BadRequestCode, "Maximum 3 external links allowed"), er.ErrStrMap[er.BadRequestCode])

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var res ResponseError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, 400, res.Code)
	require.Equal(t, "Bad Request", res.Message)
	require.Equal(t, "Maximum 3 external links allowed", res.Detail)
}

func TestErrorJSONPlainError(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorJSON(rec, http.StatusInternalServerError, errors.New("boom"), "Internal Server Error")

	var res ResponseError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, "boom", res.Detail)
}

func TestSuccessJSONWithPagination(t *testing.T) {
	rec := httptest.NewRecorder()
	SuccessJSON(rec, []string{"a"}, &Pagination{Page: 1, PageSize: 10, Total: 1})

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"data":["a"],"pagination":{"page":1,"page_size":10,"total":1}}`, rec.Body.String())
}
