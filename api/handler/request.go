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

type RequestHandler struct {
	baseHandler
}

func NewRequestHandler(store *stubapi.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{baseHandler: newBaseHandler(store, adapter, logger)}
}

func (h *RequestHandler) Add(ctx *fasthttp.RequestCtx) {
	var req transport.RequestCreateRequest
	if !h.decode(ctx, &req) {
		return
	}
	receiverID := parseID(req.ReceiverID.String())
	if receiverID == 0 {
		receiverID = h.caller(ctx)
	}
	if receiverID != h.caller(ctx) {
		h.respondError(ctx, domain.NewError(domain.ErrCodeForbidden, "Cannot post a request for another user"))
		return
	}
	r := stubapi.Request{
		ReceiverID: receiverID,
		FoodType:   req.FoodType,
		Quantity:   req.Quantity,
		Urgency:    req.Urgency,
	}
	if req.Deadline != nil && !req.Deadline.IsZero() {
		deadline := req.Deadline.Time
		r.Deadline = &deadline
	}
	created, err := h.store.AddRequest(r)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, map[string]interface{}{
		"message":    "Food request created successfully",
		"request_id": created.ID,
	})
}

// All answers with {"requests": [...]}.
func (h *RequestHandler) All(ctx *fasthttp.RequestCtx) {
	requests := h.store.Requests()
	out := make([]requestJSON, 0, len(requests))
	for _, r := range requests {
		out = append(out, newRequestJSON(r, true))
	}
	h.respondJSON(ctx, http.StatusOK, map[string]interface{}{"requests": out})
}

func (h *RequestHandler) Update(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "requestId")
	if !ok {
		return
	}
	var req transport.RequestUpdateRequest
	if !h.decode(ctx, &req) {
		return
	}
	err := h.store.UpdateRequest(h.caller(ctx), id, stubapi.RequestUpdate{
		Quantity: req.Quantity,
		Urgency:  req.Urgency,
		Status:   req.Status,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondMessage(ctx, http.StatusOK, "Food request updated successfully")
}

func (h *RequestHandler) Cancel(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "requestId")
	if !ok {
		return
	}
	if err := h.store.CancelRequest(h.caller(ctx), id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondMessage(ctx, http.StatusOK, "Food request cancelled successfully")
}

// Accept claims a food item for the caller.
func (h *RequestHandler) Accept(ctx *fasthttp.RequestCtx) {
	foodID, ok := h.pathID(ctx, "foodId")
	if !ok {
		return
	}
	var req transport.AcceptRequest
	if len(ctx.PostBody()) > 0 && !h.decode(ctx, &req) {
		return
	}
	receiverID := parseID(req.ReceiverID.String())
	if receiverID == 0 {
		receiverID = h.caller(ctx)
	}
	if receiverID != h.caller(ctx) {
		h.respondError(ctx, domain.NewError(domain.ErrCodeForbidden, "Cannot accept food for another user"))
		return
	}
	txn, err := h.store.Accept(foodID, receiverID, parseID(req.RequestID.String()))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, map[string]interface{}{
		"message":        "Food accepted successfully",
		"transaction_id": txn.ID,
	})
}
