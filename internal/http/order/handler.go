package order

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daftarhq/daftar/internal/auth"
	"github.com/daftarhq/daftar/internal/order"
)

type Handler struct {
	svc *order.Service
}

func NewHandler(svc *order.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes registers the read-only endpoints; any authenticated user may list.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

// Mutations registers the endpoints that change the ledger. The router guards
// them with the admin middleware.
func (h *Handler) Mutations(r chi.Router) {
	r.Post("/", h.create)
	r.Patch("/{id}/status", h.toggleStatus)
	r.Delete("/", h.deleteBatch)
}

type createOrderRequest struct {
	Name string     `json:"name"`
	Ref  *string    `json:"ref,omitempty"`
	Date string     `json:"date"`
	Type order.Type `json:"type"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var addedBy string
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		addedBy = claims.Email
	}

	o, err := h.svc.Create(r.Context(), order.CreateParams{
		Name:    req.Name,
		Ref:     req.Ref,
		Date:    req.Date,
		Type:    req.Type,
		AddedBy: addedBy,
	})
	if err != nil {
		if isValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(o)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(orders)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type toggleStatusResponse struct {
	Status order.Status `json:"status"`
}

func (h *Handler) toggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	next, err := h.svc.ToggleStatus(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toggleStatusResponse{Status: next}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type deleteBatchRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (h *Handler) deleteBatch(w http.ResponseWriter, r *http.Request) {
	var req deleteBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteBatch(r.Context(), req.IDs); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func isValidationError(err error) bool {
	return errors.Is(err, order.ErrEmptyName) ||
		errors.Is(err, order.ErrBadDate) ||
		errors.Is(err, order.ErrBadType)
}
