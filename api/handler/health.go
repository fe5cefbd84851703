package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/foodshare/internal/stubapi"
	"github.com/fastygo/foodshare/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	started time.Time
}

func NewHealthHandler(store *stubapi.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(store, adapter, logger),
		started:     time.Now(),
	}
}

func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	h.respondJSON(ctx, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
	})
}
