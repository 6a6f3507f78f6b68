package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/ryanuo/aug-calc/src/api/controllers"
	"github.com/ryanuo/aug-calc/src/ledger"
	"github.com/ryanuo/aug-calc/src/notifications"
	"github.com/ryanuo/aug-calc/src/repositories"
	"github.com/ryanuo/aug-calc/src/schemas"
	"github.com/ryanuo/aug-calc/src/utils"
	"github.com/ryanuo/aug-calc/src/utils/render"

	"github.com/sirupsen/logrus"
)

const requestTimeout = 10 * time.Second

type Handler struct {
	Controller controllers.IController
	Logger     *logrus.Logger
}

func NewHandler(controller controllers.IController, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{Controller: controller, Logger: logger}
}

// WithLogger puts the handler logger on every request context.
func (h *Handler) WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(utils.WithLogger(r.Context(), h.Logger)))
	})
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	if data == nil {
		w.WriteHeader(status)
		return
	}
	res, err := json.Marshal(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

// HandleErrors translates err to a status code and writes it as {"error": ...}.
func (h *Handler) HandleErrors(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "Unhandled error"
	if err != nil {
		message = err.Error()
	}

	var httpErr *utils.HTTPError
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		status, message = http.StatusGatewayTimeout, "Request timed out"
	case errors.Is(err, repositories.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidState), errors.Is(err, repositories.ErrAlreadyClosed):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidArgument),
		errors.Is(err, notifications.ErrUnknownSeverity),
		errors.Is(err, notifications.ErrInvalidDuration):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, render.ErrPDFUnavailable):
		status = http.StatusServiceUnavailable
	case errors.As(err, &httpErr):
		status, message = httpErr.Code, httpErr.Message
	}

	entry := utils.LoggerFromContext(r.Context()).WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}

	h.respond(w, r, schemas.ErrorResponse{Error: message}, status)
}

func (h *Handler) decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return utils.BadRequest("invalid request body: " + err.Error())
	}
	return nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, utils.BadRequest("query parameter " + name + " must be an integer")
	}
	return value, nil
}

func queryFloat(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, utils.BadRequest("query parameter " + name + " must be a finite number")
	}
	return value, nil
}
