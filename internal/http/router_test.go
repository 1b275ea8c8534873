package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	exportsvc "github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/http/export"
	"github.com/MrJamesThe3rd/invoicer/internal/http/invoice"
	invoicesvc "github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func newTestRouter() nethttp.Handler {
	svc := invoicesvc.NewService(nil)

	return New(
		Options{AllowedOrigins: []string{"http://localhost:3000"}},
		invoice.NewHandler(svc, zap.NewNop()),
		export.NewHandler(exportsvc.NewService(svc, invoicesvc.SignaturePhysical), zap.NewNop()),
	)
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/health", nil))

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "Server Running", rec.Body.String())
}

func TestRouter_RejectsNonJSONBody(t *testing.T) {
	req := httptest.NewRequest(nethttp.MethodPost, "/api/v1/invoices/", strings.NewReader("<xml/>"))
	req.Header.Set("Content-Type", "application/xml")

	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, nethttp.StatusUnsupportedMediaType, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(nethttp.MethodOptions, "/api/v1/invoices/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
