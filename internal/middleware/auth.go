package middleware

import (
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/foodshare/pkg/httpcontext"
)

// UserHeader is the identity header of the Food Share API.
const UserHeader = "X-User-Id"

// UserExists reports whether id names a registered account.
type UserExists func(id int64) bool

// RequireUser accepts requests whose X-User-Id names an existing account and
// rejects everything else with 401.
func RequireUser(exists UserExists, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			raw := strings.TrimSpace(string(ctx.Request.Header.Peek(UserHeader)))
			id, err := strconv.ParseInt(raw, 10, 64)
			if raw == "" || err != nil || !exists(id) {
				logger.Debug("rejected unauthenticated request",
					zap.ByteString("path", ctx.Path()),
					zap.String("user_id", raw))
				ctx.Response.Header.SetContentType("application/json")
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				ctx.SetBodyString(`{"error":"Unauthorized"}`)
				return
			}
			ctx.SetUserValue(httpcontext.UserValueKey, id)
			next(ctx)
		}
	}
}
