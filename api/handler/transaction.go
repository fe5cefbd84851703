package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/foodshare/api/transport"
	"github.com/fastygo/foodshare/internal/stubapi"
	"github.com/fastygo/foodshare/pkg/httpcontext"
)

type TransactionHandler struct {
	baseHandler
}

func NewTransactionHandler(store *stubapi.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{baseHandler: newBaseHandler(store, adapter, logger)}
}

func (h *TransactionHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.TransactionCreateRequest
	if !h.decode(ctx, &req) {
		return
	}
	txn, err := h.store.CreateTransaction(
		parseID(req.DonorID.String()),
		parseID(req.ReceiverID.String()),
		parseID(req.FoodID.String()),
	)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, map[string]interface{}{
		"message":        "Transaction created successfully",
		"transaction_id": txn.ID,
	})
}

// All answers with a bare array.
func (h *TransactionHandler) All(ctx *fasthttp.RequestCtx) {
	h.respondJSON(ctx, http.StatusOK, h.records(h.store.Transactions()))
}

// ForUser answers with {"transactions": [...]}, or 404 when there are none.
func (h *TransactionHandler) ForUser(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "userId")
	if !ok {
		return
	}
	txns := h.store.TransactionsForUser(id)
	if len(txns) == 0 {
		h.respondJSON(ctx, http.StatusNotFound, map[string]string{"message": "No transactions found"})
		return
	}
	h.respondJSON(ctx, http.StatusOK, map[string]interface{}{"transactions": h.records(txns)})
}

func (h *TransactionHandler) UpdateStatus(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "txnId")
	if !ok {
		return
	}
	var req transport.TransactionStatusRequest
	if !h.decode(ctx, &req) {
		return
	}
	if err := h.store.UpdateTransactionStatus(id, req.Status); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondMessage(ctx, http.StatusOK, "Transaction status updated")
}

func (h *TransactionHandler) records(txns []stubapi.Transaction) []txnJSON {
	out := make([]txnJSON, 0, len(txns))
	for _, t := range txns {
		out = append(out, newTxnJSON(t, h.store.FoodName(t.FoodID)))
	}
	return out
}
