package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/label-quantity/internal/quantity"
	"github.com/eugenenazirov/label-quantity/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// errApplyDisabled mirrors the disabled Apply button: fixed mode without a bulk quantity.
var errApplyDisabled = errors.New("fixed mode requires a non-zero bulk quantity")

// Handler wires the quantity storage into HTTP handlers.
type Handler struct {
	storage storage.Storage
	logger  *zap.Logger

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithLogger attaches a logger for state change events.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage: store,
		logger:  zap.NewNop(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetState(w http.ResponseWriter, r *http.Request) {
	_ = r
	h.respondWithState(w, "")
}

func (h *Handler) handlePutMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	mode, err := quantity.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid mode", err.Error(), `use one of "", "fixed", "volume", "headcount"`)
		return
	}

	if err := h.storage.Update(func(e *quantity.Engine) error {
		return e.SetMode(mode)
	}); err != nil {
		writeInternalError(w, err)
		return
	}

	h.logger.Debug("mode changed",
		zap.String("mode", mode.String()),
		zap.String("request_id", requestIDFromContext(r.Context())),
	)
	h.respondWithState(w, "Mode updated")
}

func (h *Handler) handlePutBulkQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if err := h.storage.Update(func(e *quantity.Engine) error {
		e.SetBulkQuantity(req.Quantity)
		return nil
	}); err != nil {
		writeInternalError(w, err)
		return
	}

	h.respondWithState(w, "")
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	var mode quantity.Mode
	var bulk quantity.Value

	err := h.storage.Update(func(e *quantity.Engine) error {
		if !e.CanApply() {
			return errApplyDisabled
		}
		mode, bulk = e.Mode(), e.BulkQuantity()
		e.Apply()
		return nil
	})
	if err != nil {
		if errors.Is(err, errApplyDisabled) {
			writeError(w, http.StatusConflict, "Apply disabled", err.Error(), "enter a quantity before applying in fixed mode")
			return
		}
		writeInternalError(w, err)
		return
	}

	h.logger.Info("bulk quantity applied",
		zap.String("mode", mode.String()),
		zap.Stringer("bulk_quantity", bulk),
		zap.String("request_id", requestIDFromContext(r.Context())),
	)
	h.respondWithState(w, "Quantities applied")
}

func (h *Handler) handlePutItemQuantity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if err := h.storage.Update(func(e *quantity.Engine) error {
		return e.SetItemQuantity(id, req.Quantity)
	}); err != nil {
		if errors.Is(err, quantity.ErrUnknownItem) {
			writeError(w, http.StatusNotFound, "Item not found", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.respondWithState(w, "")
}

func (h *Handler) respondWithState(w http.ResponseWriter, message string) {
	var resp stateResponse
	err := h.storage.View(func(e *quantity.Engine) error {
		resp = newStateResponse(e)
		return nil
	})
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp.UpdatedAt = h.storage.UpdatedAt()
	resp.Message = message
	writeJSON(w, http.StatusOK, resp)
}

func newStateResponse(e *quantity.Engine) stateResponse {
	items := e.Items()
	quantities := e.Quantities()

	rows := make([]itemResponse, len(items))
	for i, item := range items {
		rows[i] = itemResponse{
			Item:     item,
			Quantity: quantities[item.ID],
		}
	}

	return stateResponse{
		Items:          rows,
		Mode:           e.Mode(),
		BulkQuantity:   e.BulkQuantity(),
		Headcount:      e.Headcount(),
		CanApply:       e.CanApply(),
		EagerRecompute: e.EagerRecompute(),
	}
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type modeRequest struct {
	Mode string `json:"mode"`
}

type quantityRequest struct {
	Quantity quantity.Value `json:"quantity"`
}

type itemResponse struct {
	quantity.Item
	Quantity quantity.Value `json:"quantity"`
}

type stateResponse struct {
	Items          []itemResponse `json:"items"`
	Mode           quantity.Mode  `json:"mode"`
	BulkQuantity   quantity.Value `json:"bulkQuantity"`
	Headcount      int            `json:"headcount"`
	CanApply       bool           `json:"canApply"`
	EagerRecompute bool           `json:"eagerRecompute"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Message        string         `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
