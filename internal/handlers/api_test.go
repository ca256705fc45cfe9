package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vendas-dashboard/internal/config"
	"vendas-dashboard/internal/services"
)

const handlerTestCSV = `ORDERDATE,SALES,PRODUCTLINE
2023-01-15,1000,Classic Cars
2023-01-20,500,Motorcycles
2023-02-10,1800,Classic Cars
2023-03-05,900,Planes
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Data: config.DataConfig{
			ExportDir:   t.TempDir(),
			TopNDefault: 15,
			TopNMin:     5,
			TopNMax:     30,
		},
	}
}

func createTestAnalytics(t *testing.T) *services.Analytics {
	t.Helper()
	a := services.NewAnalytics(slog.Default())
	if err := a.LoadUpload("test.csv", strings.NewReader(handlerTestCSV)); err != nil {
		t.Fatal(err)
	}
	return a
}

func newTestAPIHandlers(t *testing.T) *APIHandlers {
	t.Helper()
	return NewAPIHandlers(createTestAnalytics(t), testConfig(t), slog.Default())
}

func decodeSuccess(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data    map[string]any `json:"data"`
		Success bool           `json:"success"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, w.Body.String())
	}
	if !envelope.Success {
		t.Fatalf("success = false, body %q", w.Body.String())
	}
	return envelope.Data
}

func TestNewAPIHandlers(t *testing.T) {
	analytics := createTestAnalytics(t)
	handlers := NewAPIHandlers(analytics, testConfig(t), slog.Default())

	if handlers == nil {
		t.Fatal("NewAPIHandlers() returned nil")
	}
	if handlers.analytics != analytics {
		t.Error("NewAPIHandlers() should set analytics field")
	}
}

func TestHandleColumns(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/columns", nil)
	w := httptest.NewRecorder()
	h.HandleColumns(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	data := decodeSuccess(t, w)

	defaults, ok := data["defaults"].(map[string]any)
	if !ok {
		t.Fatalf("defaults missing: %v", data)
	}
	if defaults["date_col"] != "ORDERDATE" {
		t.Errorf("default date_col = %v, want ORDERDATE", defaults["date_col"])
	}
	if defaults["value_col"] != "SALES" {
		t.Errorf("default value_col = %v, want SALES", defaults["value_col"])
	}
}

func TestHandleOverview(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/overview", nil)
	w := httptest.NewRecorder()
	h.HandleOverview(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=60" {
		t.Errorf("cache-control = %q", cc)
	}
	data := decodeSuccess(t, w)
	if data["total_revenue"] != 4200.0 {
		t.Errorf("total_revenue = %v, want 4200", data["total_revenue"])
	}
}

func TestHandleGrowth(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/growth?period=mensal", nil)
	w := httptest.NewRecorder()
	h.HandleGrowth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %q", w.Code, http.StatusOK, w.Body.String())
	}
	data := decodeSuccess(t, w)
	records, ok := data["records"].([]any)
	if !ok || len(records) != 3 {
		t.Fatalf("records = %v, want 3 entries", data["records"])
	}
	first := records[0].(map[string]any)
	if first["growth_pct"] != nil {
		t.Errorf("first growth_pct = %v, want null", first["growth_pct"])
	}
}

func TestHandleGrowth_InvalidPeriod(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/growth?period=weekly", nil)
	w := httptest.NewRecorder()
	h.HandleGrowth(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if !strings.Contains(w.Body.String(), "INVALID_PERIOD") {
		t.Errorf("body missing error code: %q", w.Body.String())
	}
}

func TestHandleGrowth_UnknownColumn(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/growth?date_col=NOPE", nil)
	w := httptest.NewRecorder()
	h.HandleGrowth(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d, body %q", w.Code, http.StatusUnprocessableEntity, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "NO_DATE_COLUMN") {
		t.Errorf("body missing error code: %q", w.Body.String())
	}
}

func TestHandlePareto(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/pareto", nil)
	w := httptest.NewRecorder()
	h.HandlePareto(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %q", w.Code, http.StatusOK, w.Body.String())
	}
	data := decodeSuccess(t, w)
	rows := data["rows"].([]any)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	top := rows[0].(map[string]any)
	if top["dimension"] != "Classic Cars" {
		t.Errorf("top dimension = %v, want Classic Cars", top["dimension"])
	}
}

func TestHandlePareto_TopNClamped(t *testing.T) {
	h := newTestAPIHandlers(t)

	// 2 is below the configured minimum of 5, so nothing is cut.
	req := httptest.NewRequest(http.MethodGet, "/api/pareto?top_n=2", nil)
	w := httptest.NewRecorder()
	h.HandlePareto(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}
	data := decodeSuccess(t, w)
	if rows := data["rows"].([]any); len(rows) != 3 {
		t.Errorf("rows = %d, want all 3 (clamped top_n exceeds group count)", len(rows))
	}
}

func TestHandlePareto_UnknownDimension(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/pareto?dimension_col=NOPE", nil)
	w := httptest.NewRecorder()
	h.HandlePareto(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d, body %q", w.Code, http.StatusUnprocessableEntity, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "NO_DIMENSION_COLUMN") {
		t.Errorf("body missing error code: %q", w.Body.String())
	}
}

func TestHandlePareto_BadTopN(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/pareto?top_n=lots", nil)
	w := httptest.NewRecorder()
	h.HandlePareto(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleYoY(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/yoy", nil)
	w := httptest.NewRecorder()
	h.HandleYoY(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}
	data := decodeSuccess(t, w)
	if rows := data["rows"].([]any); len(rows) != 3 {
		t.Errorf("rows = %v, want 3 months", data["rows"])
	}
}

func TestHandleUpload(t *testing.T) {
	h := newTestAPIHandlers(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "novo.csv")
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(part, "DATA,VENDAS\n2024-01-10,100\n2024-02-10,200\n")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.HandleUpload(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}
	data := decodeSuccess(t, w)
	if data["source"] != "novo.csv" {
		t.Errorf("source = %v, want novo.csv", data["source"])
	}
	defaults := data["defaults"].(map[string]any)
	if defaults["date_col"] != "DATA" {
		t.Errorf("new default date_col = %v, want DATA", defaults["date_col"])
	}
}

func TestHandleUpload_MissingFile(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("not multipart"))
	w := httptest.NewRecorder()
	h.HandleUpload(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleExport(t *testing.T) {
	cfg := testConfig(t)
	h := NewAPIHandlers(createTestAnalytics(t), cfg, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/export", nil)
	w := httptest.NewRecorder()
	h.HandleExport(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}
	data := decodeSuccess(t, w)
	tables, ok := data["tables"].(map[string]any)
	if !ok {
		t.Fatalf("tables missing: %v", data)
	}
	if tables["fato_vendas"] != 4.0 {
		t.Errorf("fato_vendas = %v, want 4", tables["fato_vendas"])
	}
}

func TestHandleExport_NoParseableDates(t *testing.T) {
	a := services.NewAnalytics(slog.Default())
	csv := "ORDERDATE,SALES,PRODUCTLINE\nnope,1000,Classic Cars\nalso bad,500,Planes\n"
	if err := a.LoadUpload("ruim.csv", strings.NewReader(csv)); err != nil {
		t.Fatal(err)
	}
	h := NewAPIHandlers(a, testConfig(t), slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/export", nil)
	w := httptest.NewRecorder()
	h.HandleExport(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d, body %q", w.Code, http.StatusUnprocessableEntity, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "EMPTY_AFTER_CLEANING") {
		t.Errorf("body missing error code: %q", w.Body.String())
	}
}

func TestHandleGrowthCSV(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/growth.csv", nil)
	w := httptest.NewRecorder()
	h.HandleGrowthCSV(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content-type = %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "period,total,growth_pct\n") {
		t.Errorf("csv header missing: %q", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "2023-01-31,1500,\n") {
		t.Errorf("csv missing first bucket: %q", w.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	data := decodeSuccess(t, w)
	if data["status"] != "healthy" {
		t.Errorf("status field = %v, want healthy", data["status"])
	}
}

func TestHandleStats(t *testing.T) {
	h := newTestAPIHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()
	h.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	data := decodeSuccess(t, w)
	if data["records"] != 4.0 {
		t.Errorf("records = %v, want 4", data["records"])
	}
}
