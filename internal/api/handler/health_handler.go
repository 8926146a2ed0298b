package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	if db == nil {
		panic("db pinger cannot be nil")
	}
	return &HealthHandler{db: db}
}

// @Summary health check
// @Tags health
// @Produce json
// @Success 200 {object} api.Response{data=string} "ok"
// @Failure 500 {object} api.ResponseError{data=string} "database unreachable"
// @Router /healthz [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		return
	}
	api.SuccessJSON(w, "ok", nil)
}
