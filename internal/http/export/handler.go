package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type Handler struct {
	svc *export.Service
	log *zap.Logger
}

func NewHandler(svc *export.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	InvoiceType *invoice.Category `json:"invoice_type,omitempty"`
	StartDate   *time.Time        `json:"start_date,omitempty"`
	EndDate     *time.Time        `json:"end_date,omitempty"`
}

func (req exportRequest) filter() invoice.ListFilter {
	return invoice.ListFilter{
		Category:  req.InvoiceType,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
}

type exportedInvoiceResponse struct {
	ID          uuid.UUID        `json:"id"`
	InvoiceNo   string           `json:"invoice_no"`
	InvoiceType invoice.Category `json:"invoice_type"`
	BuyerName   string           `json:"buyer_name"`
	Date        time.Time        `json:"date"`
	GrandTotal  string           `json:"grand_total"`
	File        string           `json:"file"`
}

type exportMetadataResponse struct {
	Invoices []exportedInvoiceResponse `json:"invoices"`
	Summary  string                    `json:"summary"`
}

func toExportedResponse(item export.Item) exportedInvoiceResponse {
	return exportedInvoiceResponse{
		ID:          item.Invoice.ID,
		InvoiceNo:   item.Invoice.Number,
		InvoiceType: item.Invoice.Category,
		BuyerName:   item.Invoice.Buyer.Name,
		Date:        item.Invoice.Date,
		GrandTotal:  item.Invoice.GrandTotal.StringFixed(2),
		File:        filepath.Base(item.FilePath),
	}
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tmpDir, err := os.MkdirTemp("", "invoicer-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	items, err := h.svc.Export(r.Context(), req.filter(), tmpDir)
	if err != nil {
		h.log.Error("export failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	resp := exportMetadataResponse{
		Invoices: make([]exportedInvoiceResponse, 0, len(items)),
		Summary:  h.svc.GenerateSummary(items),
	}

	for _, item := range items {
		resp.Invoices = append(resp.Invoices, toExportedResponse(item))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tmpDir, err := os.MkdirTemp("", "invoicer-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	items, err := h.svc.Export(r.Context(), req.filter(), tmpDir)
	if err != nil {
		h.log.Error("export failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	summary := h.svc.GenerateSummary(items)
	if err := os.WriteFile(filepath.Join(tmpDir, "summary.txt"), []byte(summary), 0o644); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"invoices_%s.zip\"", time.Now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	err = filepath.Walk(tmpDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		relPath, _ := filepath.Rel(tmpDir, path)

		zf, err := zipWriter.Create(relPath)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(zf, f)

		return err
	})
	if err != nil {
		h.log.Error("failed to create zip", zap.Error(err))
	}
}
