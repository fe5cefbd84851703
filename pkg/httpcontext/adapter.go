package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/foodshare/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserID     Key = "user_id"
)

// UserValueKey is the fasthttp user value holding the caller's id once the
// auth middleware accepted the request.
const UserValueKey = "foodshare.user_id"

// Adapter converts fasthttp.RequestCtx into a stdlib context with a deadline,
// the request id and the caller's id.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Attach derives the request context and echoes the request id on the response.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := RequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set("X-Request-ID", reqID)

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if id, ok := ctx.UserValue(UserValueKey).(int64); ok {
		stdCtx = context.WithValue(stdCtx, KeyUserID, id)
	}
	return stdCtx, cancel
}

// UserID returns the authenticated caller stored by the auth middleware.
func UserID(ctx *fasthttp.RequestCtx) (int64, bool) {
	id, ok := ctx.UserValue(UserValueKey).(int64)
	return id, ok
}

// RequestID returns the incoming X-Request-ID or a fresh one.
func RequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := string(ctx.Request.Header.Peek("X-Request-ID")); strings.TrimSpace(header) != "" {
		return header
	}
	return uuid.NewString()
}
