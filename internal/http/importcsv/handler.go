package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daftarhq/daftar/internal/auth"
	"github.com/daftarhq/daftar/internal/importer"
	"github.com/daftarhq/daftar/internal/order"
)

type Handler struct {
	importSvc *importer.Service
	orderSvc  *order.Service
}

func NewHandler(importSvc *importer.Service, orderSvc *order.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		orderSvc:  orderSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type orderResponse struct {
	ID   uuid.UUID  `json:"id"`
	Name string     `json:"name"`
	Date string     `json:"date"`
	Type order.Type `json:"type"`
}

type importSuccessResponse struct {
	Imported int             `json:"imported"`
	Orders   []orderResponse `json:"orders"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatLedger
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(format, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		for i := range params {
			params[i].AddedBy = claims.Email
		}
	}

	orders, err := h.orderSvc.CreateBatch(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := importSuccessResponse{
		Imported: len(orders),
		Orders:   make([]orderResponse, 0, len(orders)),
	}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, orderResponse{
			ID:   o.ID,
			Name: o.Name,
			Date: o.Date,
			Type: o.Type,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
