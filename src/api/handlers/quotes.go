package handlers

import (
	"context"
	"net/http"

	"github.com/ryanuo/aug-calc/src/utils"
)

const goldTradeFailure = "Failed to fetch gold trade data"

// GetGoldTrade proxies the gold feed. Any failure is reported as a bad gateway.
func (h *Handler) GetGoldTrade(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	refresh := r.URL.Query().Get("refresh") == "true"
	info, err := h.Controller.GetGoldTrade(ctx, refresh)
	if err != nil {
		utils.LoggerFromContext(ctx).WithError(err).Error("gold trade proxy failed")
		h.HandleErrors(w, r, utils.BadGateway(goldTradeFailure))
		return
	}

	h.respond(w, r, info, http.StatusOK)
}
