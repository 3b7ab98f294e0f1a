package summary

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daftarhq/daftar/internal/order"
	"github.com/daftarhq/daftar/internal/summary"
	"github.com/daftarhq/daftar/internal/view"
)

type Handler struct {
	orders     *order.Service
	summarizer *summary.Summarizer
}

func NewHandler(orders *order.Service, summarizer *summary.Summarizer) *Handler {
	return &Handler{orders: orders, summarizer: summarizer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.summarize)
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

func (h *Handler) summarize(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	params := view.Params{
		Search:     q.Get("search"),
		DateFilter: q.Get("date"),
		Status:     order.Status(q.Get("status")),
		Sort:       view.Option(q.Get("sort")),
	}
	if params.Sort == "" {
		params.Sort = view.DefaultSort
	}

	proj := view.Project(orders, params)

	text, err := h.summarizer.Summarize(r.Context(), proj.All)
	if err != nil {
		if errors.Is(err, summary.ErrBusy) {
			http.Error(w, "summary request already in flight", http.StatusTooManyRequests)
			return
		}

		// Any other failure degrades to the fallback text.
		slog.Error("summary failed", "error", err)
		text = summary.Fallback
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(summaryResponse{Summary: text}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
