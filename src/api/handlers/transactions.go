package handlers

import (
	"context"
	"net/http"

	"github.com/ryanuo/aug-calc/src/ledger"
	"github.com/ryanuo/aug-calc/src/repositories"
	"github.com/ryanuo/aug-calc/src/schemas"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	req := new(schemas.CreateTransactionRequest)
	if err := h.decodeJSON(r, req); err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	open, err := h.Controller.CreateTransaction(ctx, req)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, schemas.NewTransactionResponse(open), http.StatusCreated)
}

func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	limit, err := queryInt(r, "limit")
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	filter := repositories.ListFilter{
		State:  ledger.State(r.URL.Query().Get("state")),
		Limit:  limit,
		Offset: offset,
	}

	txs, err := h.Controller.ListTransactions(ctx, filter)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, schemas.NewTransactionListResponse(txs), http.StatusOK)
}

func (h *Handler) GetTransactionByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	tx, err := h.Controller.GetTransaction(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, schemas.NewTransactionResponse(tx), http.StatusOK)
}

func (h *Handler) CloseTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	req := new(schemas.CloseTransactionRequest)
	if err := h.decodeJSON(r, req); err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	closed, err := h.Controller.CloseTransaction(ctx, chi.URLParam(r, "id"), req)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, schemas.NewTransactionResponse(closed), http.StatusOK)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.Controller.DeleteTransaction(ctx, chi.URLParam(r, "id")); err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, nil, http.StatusNoContent)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	markPrice, err := queryFloat(r, "markPrice")
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	summary, err := h.Controller.GetSummary(ctx, markPrice)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, summary, http.StatusOK)
}
