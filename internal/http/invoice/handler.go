package invoice

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/share"
)

type Handler struct {
	svc *invoice.Service
	log *zap.Logger
}

func NewHandler(svc *invoice.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/next-number", h.nextNumber)
	r.Post("/", h.create)
	r.Post("/email", h.email)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/pdf", h.pdf)
	r.Get("/{id}/share", h.share)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) nextNumber(w http.ResponseWriter, r *http.Request) {
	category := invoice.Category(r.URL.Query().Get("type"))

	next, err := h.svc.NextNumber(r.Context(), category)
	if err != nil {
		if errors.Is(err, invoice.ErrUnknownCategory) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		h.log.Error("failed to compute next number", zap.Error(err))
		http.Error(w, "failed to compute next number", http.StatusInternalServerError)

		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"next_invoice_no": next})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Create(r.Context(), req.params())
	if err != nil {
		h.writeError(w, err)
		return
	}

	if wantsJSON(r) {
		h.writeJSON(w, http.StatusCreated, toResponse(inv))
		return
	}

	h.writePDF(w, inv, invoice.ParseSignatureMode(req.SignatureType))
}

func (h *Handler) email(w http.ResponseWriter, r *http.Request) {
	var req emailInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	to := strings.TrimSpace(req.Email)
	if to == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}

	_, err := h.svc.Email(r.Context(), invoice.EmailParams{
		CreateParams: req.params(),
		To:           to,
		Signature:    invoice.ParseSignatureMode(req.SignatureType),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Email sent successfully!"})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := invoice.ListFilter{}

	if s := r.URL.Query().Get("type"); s != "" {
		category, err := invoice.NormalizeCategory(invoice.Category(s))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		filter.Category = new(category)
	}

	loc := h.svc.Now().Location()

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, loc)
		if err != nil {
			http.Error(w, "invalid start_date", http.StatusBadRequest)
			return
		}

		filter.StartDate = new(t)
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, loc)
		if err != nil {
			http.Error(w, "invalid end_date", http.StatusBadRequest)
			return
		}

		// The whole end day is included.
		filter.EndDate = new(t.AddDate(0, 0, 1).Add(-time.Nanosecond))
	}

	invs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toResponseList(invs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writePDF(w, inv, invoice.ParseSignatureMode(r.URL.Query().Get("signature")))
}

func (h *Handler) share(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	link, err := h.svc.ShareLink(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"url": link})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Dashboard serves the monthly tax invoice turnover of a year, the current one
// unless ?year= is given.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	year := h.svc.Now().Year()

	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}

		year = y
	}

	totals, err := h.svc.MonthlyTotals(r.Context(), year)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]monthlyTotalResponse, len(totals))
	for i, m := range totals {
		resp[i] = monthlyTotalResponse{Name: m.Name, Turnover: m.Turnover.StringFixed(2)}
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writePDF(w http.ResponseWriter, inv *invoice.Invoice, mode invoice.SignatureMode) {
	doc, err := h.svc.Render(inv, mode)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", inv.Number+".pdf"))

	if _, err := w.Write(doc); err != nil {
		h.log.Error("failed to write document", zap.Error(err))
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, invoice.ErrNotFound):
		http.Error(w, "invoice not found", http.StatusNotFound)
	case errors.Is(err, invoice.ErrUnknownCategory), errors.Is(err, share.ErrNoPhone):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, invoice.ErrDeliveryUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		h.log.Error("request failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
