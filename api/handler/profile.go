package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/foodshare/api/transport"
	"github.com/fastygo/foodshare/domain"
	"github.com/fastygo/foodshare/internal/stubapi"
	"github.com/fastygo/foodshare/pkg/httpcontext"
)

type ProfileHandler struct {
	baseHandler
}

func NewProfileHandler(store *stubapi.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{baseHandler: newBaseHandler(store, adapter, logger)}
}

func (h *ProfileHandler) GetProfile(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "userId")
	if !ok {
		return
	}
	user, err := h.store.User(id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, newUserJSON(user))
}

// UpdateProfile only lets callers change their own profile.
func (h *ProfileHandler) UpdateProfile(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "userId")
	if !ok {
		return
	}
	if id != h.caller(ctx) {
		h.respondError(ctx, domain.NewError(domain.ErrCodeForbidden, "Cannot update another user's profile"))
		return
	}
	var req transport.ProfileUpdateRequest
	if !h.decode(ctx, &req) {
		return
	}
	err := h.store.UpdateProfile(id, domain.ProfileUpdate{
		Name:      req.Name,
		Phone:     req.Phone,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondMessage(ctx, http.StatusOK, "Profile updated successfully")
}
