package handlers

import (
	"net/http"

	"github.com/ryanuo/aug-calc/src/schemas"
)

func (h *Handler) GetNotification(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.Controller.CurrentNotification(r.Context()), http.StatusOK)
}

func (h *Handler) PostNotification(w http.ResponseWriter, r *http.Request) {
	req := new(schemas.ShowNotificationRequest)
	if err := h.decodeJSON(r, req); err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	current, err := h.Controller.ShowNotification(r.Context(), req)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, current, http.StatusOK)
}
