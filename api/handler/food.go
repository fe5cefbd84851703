package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/foodshare/api/transport"
	"github.com/fastygo/foodshare/internal/stubapi"
	"github.com/fastygo/foodshare/pkg/httpcontext"
	"github.com/fastygo/foodshare/pkg/logger"
)

type FoodHandler struct {
	baseHandler
}

func NewFoodHandler(store *stubapi.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *FoodHandler {
	return &FoodHandler{baseHandler: newBaseHandler(store, adapter, logger)}
}

// Add lists a food item for the caller. The body's user_id is informational;
// the listing always belongs to the authenticated caller.
func (h *FoodHandler) Add(ctx *fasthttp.RequestCtx) {
	var req transport.FoodAddRequest
	if !h.decode(ctx, &req) {
		return
	}
	f := stubapi.Food{DonorID: h.caller(ctx), Name: req.FoodName, Quantity: req.Quantity}
	if req.ExpiryDate != nil {
		f.Expiry = req.ExpiryDate.Time
	}
	food, err := h.store.AddFood(f)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()
	logger.WithRequestID(stdCtx, h.logger).Info("food listed",
		zap.Int64("food_id", food.ID), zap.Int64("donor_id", food.DonorID))
	h.respondJSON(ctx, http.StatusCreated, map[string]interface{}{
		"message": "Food item added successfully",
		"food_id": food.ID,
	})
}

// Mine answers with a bare array.
func (h *FoodHandler) Mine(ctx *fasthttp.RequestCtx) {
	donorID, ok := h.pathID(ctx, "donorId")
	if !ok {
		return
	}
	foods := h.store.FoodsByDonor(donorID)
	out := make([]foodJSON, 0, len(foods))
	for _, f := range foods {
		out = append(out, newFoodJSON(f))
	}
	h.respondJSON(ctx, http.StatusOK, out)
}

func (h *FoodHandler) Update(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "foodId")
	if !ok {
		return
	}
	var req transport.FoodUpdateRequest
	if !h.decode(ctx, &req) {
		return
	}
	upd := stubapi.FoodUpdate{Name: req.FoodName, Quantity: req.Quantity}
	if req.ExpiryDate != nil && !req.ExpiryDate.IsZero() {
		expiry := req.ExpiryDate.Time
		upd.Expiry = &expiry
	}
	if err := h.store.UpdateFood(h.caller(ctx), id, upd); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondMessage(ctx, http.StatusOK, "Food item updated successfully")
}

func (h *FoodHandler) Delete(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "foodId")
	if !ok {
		return
	}
	if err := h.store.DeleteFood(h.caller(ctx), id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondMessage(ctx, http.StatusOK, "Food item deleted successfully")
}

// Nearby answers with a bare array of pending requests.
func (h *FoodHandler) Nearby(ctx *fasthttp.RequestCtx) {
	requests := h.store.PendingRequests()
	out := make([]requestJSON, 0, len(requests))
	for _, r := range requests {
		out = append(out, newRequestJSON(r, false))
	}
	h.respondJSON(ctx, http.StatusOK, out)
}

func (h *FoodHandler) Match(ctx *fasthttp.RequestCtx) {
	foodID, ok := h.pathID(ctx, "foodId")
	if !ok {
		return
	}
	requestID, ok := h.pathID(ctx, "requestId")
	if !ok {
		return
	}
	txn, err := h.store.Match(h.caller(ctx), foodID, requestID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()
	logger.WithRequestID(stdCtx, h.logger).Info("food matched",
		zap.Int64("food_id", foodID), zap.Int64("request_id", requestID), zap.Int64("txn_id", txn.ID))
	h.respondJSON(ctx, http.StatusOK, map[string]interface{}{
		"message":        "Food matched successfully",
		"transaction_id": txn.ID,
	})
}

// DonorTransactions answers with a bare array using transaction_id and
// timestamp keys.
func (h *FoodHandler) DonorTransactions(ctx *fasthttp.RequestCtx) {
	donorID, ok := h.pathID(ctx, "donorId")
	if !ok {
		return
	}
	txns := h.store.TransactionsForDonor(donorID)
	out := make([]donorTxnJSON, 0, len(txns))
	for _, t := range txns {
		rec := donorTxnJSON{
			TransactionID: t.ID,
			ReceiverID:    t.ReceiverID,
			FoodID:        t.FoodID,
			Timestamp:     t.CreatedAt.Format(transport.DateTimeLayout),
			Status:        t.Status,
		}
		if t.RequestID != 0 {
			id := t.RequestID
			rec.RequestID = &id
		}
		out = append(out, rec)
	}
	h.respondJSON(ctx, http.StatusOK, out)
}
