package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/foodshare/domain"
	"github.com/fastygo/foodshare/internal/stubapi"
	"github.com/fastygo/foodshare/pkg/httpcontext"
	"github.com/fastygo/foodshare/pkg/logger"
)

type baseHandler struct {
	store   *stubapi.Store
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(store *stubapi.Store, adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return baseHandler{store: store, adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	return h.adapter.Attach(ctx)
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondMessage(ctx *fasthttp.RequestCtx, status int, message string) {
	h.respondJSON(ctx, status, map[string]string{"message": message})
}

// respondError writes the backend's error shape: {"error": "..."}.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status := mapError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		stdCtx, cancel := h.requestContext(ctx)
		logger.WithRequestID(stdCtx, h.logger).Error("request failed", zap.ByteString("path", ctx.Path()), zap.Error(err))
		cancel()
		msg = "Internal server error"
	}
	h.respondJSON(ctx, status, map[string]string{"error": msg})
}

func (h baseHandler) badRequest(ctx *fasthttp.RequestCtx, message string) {
	h.respondJSON(ctx, http.StatusBadRequest, map[string]string{"error": message})
}

func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		h.badRequest(ctx, "invalid payload")
		return false
	}
	return true
}

// pathID reads a numeric path parameter, answering 404 when it is not one.
func (h baseHandler) pathID(ctx *fasthttp.RequestCtx, name string) (int64, bool) {
	raw, _ := ctx.UserValue(name).(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.respondJSON(ctx, http.StatusNotFound, map[string]string{"error": "Not found"})
		return 0, false
	}
	return id, true
}

func (h baseHandler) caller(ctx *fasthttp.RequestCtx) int64 {
	id, _ := httpcontext.UserID(ctx)
	return id
}

func mapError(err error) int {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func parseID(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
