package export

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daftarhq/daftar/internal/export"
	"github.com/daftarhq/daftar/internal/order"
	"github.com/daftarhq/daftar/internal/view"
)

type Handler struct {
	orders *order.Service
	svc    *export.Service
}

func NewHandler(orders *order.Service, svc *export.Service) *Handler {
	return &Handler{orders: orders, svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/csv", h.csv)
	r.Get("/pdf", h.pdf)
}

// paramsFromQuery builds view parameters from the request, so a download
// reflects exactly what the caller's table shows.
func paramsFromQuery(r *http.Request) view.Params {
	q := r.URL.Query()

	return view.Params{
		Search:     q.Get("search"),
		DateFilter: q.Get("date"),
		Status:     order.Status(q.Get("status")),
		Sort:       view.Option(q.Get("sort")),
	}
}

func (h *Handler) project(r *http.Request) (view.Projection, error) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		return view.Projection{}, err
	}

	params := paramsFromQuery(r)
	if params.Sort == "" {
		params.Sort = view.DefaultSort
	}

	return view.Project(orders, params), nil
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	proj, err := h.project(r)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	artifact, err := h.svc.ExportCSV(proj)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeArtifact(w, artifact)
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	proj, err := h.project(r)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	artifact, err := h.svc.ExportPDF(r.Context(), proj)
	if err != nil {
		switch {
		case errors.Is(err, export.ErrNothingToExport):
			http.Error(w, "nothing to export", http.StatusUnprocessableEntity)
		case errors.Is(err, export.ErrFontUnavailable):
			http.Error(w, "pdf font could not be fetched", http.StatusBadGateway)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	writeArtifact(w, artifact)
}

func writeArtifact(w http.ResponseWriter, a *export.Artifact) {
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))

	if _, err := w.Write(a.Data); err != nil {
		slog.Error("failed to write artifact", "error", err)
	}
}
