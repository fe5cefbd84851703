package handler

import (
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/foodshare/api/transport"
	"github.com/fastygo/foodshare/domain"
	"github.com/fastygo/foodshare/internal/stubapi"
	"github.com/fastygo/foodshare/pkg/httpcontext"
	"github.com/fastygo/foodshare/pkg/logger"
)

type AuthHandler struct {
	baseHandler
}

func NewAuthHandler(store *stubapi.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{baseHandler: newBaseHandler(store, adapter, logger)}
}

// Register creates an account. Both "roles" and the legacy "role" are read.
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if !h.decode(ctx, &req) {
		return
	}
	names := append([]string{}, req.Roles...)
	if req.Role != "" {
		names = append(names, strings.Split(req.Role, ",")...)
	}
	roles := make([]domain.Role, 0, len(names))
	for _, n := range names {
		roles = append(roles, domain.Role(n))
	}

	user, err := h.store.Register(stubapi.User{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Roles:     domain.NewRoleSet(roles...),
	}, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()
	logger.WithRequestID(stdCtx, h.logger).Info("user registered", zap.Int64("user_id", user.ID))
	h.respondJSON(ctx, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user_id": user.ID,
	})
}

func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if !h.decode(ctx, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		h.badRequest(ctx, "Email and password are required")
		return
	}
	user, err := h.store.Authenticate(req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user_id": user.ID,
		"roles":   user.Roles.Strings(),
	})
}
