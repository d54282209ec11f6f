package dashboard

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wharfline/depot/internal/label"
	"github.com/wharfline/depot/internal/models"
	"github.com/wharfline/depot/internal/store"
	"github.com/wharfline/depot/internal/warehouse"
)

func newTestRouter(t *testing.T) (*warehouse.Engine, http.Handler) {
	t.Helper()
	eng, err := warehouse.New(store.NewMemory())
	if err != nil {
		t.Fatalf("warehouse.New: %v", err)
	}
	return eng, NewRouter(StartOpts{Engine: eng})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestStart_NilEngine(t *testing.T) {
	err := Start(context.Background(), StartOpts{})
	if err == nil {
		t.Fatal("expected error for nil engine")
	}
	if !strings.Contains(err.Error(), "engine is required") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "engine is required")
	}
}

func TestLoadCRUD(t *testing.T) {
	_, h := newTestRouter(t)

	w := doJSON(t, h, http.MethodPost, "/api/loads", map[string]any{
		"id": "STS2990", "company": "Cardinal Maritime",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body)
	}

	w = doJSON(t, h, http.MethodGet, "/api/loads/sts2990", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var load models.Load
	if err := json.Unmarshal(w.Body.Bytes(), &load); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if load.ID != "STS2990" || load.Status != models.StatusScheduled {
		t.Errorf("load = %+v", load)
	}

	w = doJSON(t, h, http.MethodPatch, "/api/loads/STS2990", map[string]any{
		"company": "Harbor Freight Ltd",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &load); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if load.Company != "Harbor Freight Ltd" {
		t.Errorf("company = %q", load.Company)
	}

	w = doJSON(t, h, http.MethodDelete, "/api/loads/STS2990", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, h, http.MethodGet, "/api/loads/STS2990", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", w.Code)
	}
}

func TestAddLoad_DuplicateIsBadRequest(t *testing.T) {
	_, h := newTestRouter(t)

	form := map[string]any{"id": "STS2990"}
	if w := doJSON(t, h, http.MethodPost, "/api/loads", form); w.Code != http.StatusCreated {
		t.Fatalf("first create status = %d", w.Code)
	}
	w := doJSON(t, h, http.MethodPost, "/api/loads", form)
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate create status = %d, want 400", w.Code)
	}
}

func TestUpdateLoad_UnknownIDIsNoContent(t *testing.T) {
	_, h := newTestRouter(t)

	w := doJSON(t, h, http.MethodPatch, "/api/loads/GHOST", map[string]any{"company": "X"})
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
}

func TestUpdateLoadStatus(t *testing.T) {
	eng, h := newTestRouter(t)
	if err := eng.AddLoad(warehouse.LoadForm{ID: "STS2990"}); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, h, http.MethodPut, "/api/loads/STS2990/status", map[string]any{"status": "Arrived"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	load, _ := eng.GetLoadByID("STS2990")
	if load.Status != models.StatusArrived {
		t.Errorf("load status = %q", load.Status)
	}

	w = doJSON(t, h, http.MethodPut, "/api/loads/STS2990/status", map[string]any{"status": "Teleported"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid status = %d, want 400", w.Code)
	}
}

func TestShipmentLifecycle(t *testing.T) {
	eng, h := newTestRouter(t)
	if err := eng.AddLoad(warehouse.LoadForm{ID: "STS2990"}); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, h, http.MethodPost, "/api/shipments", map[string]any{
		"loadId": "STS2990", "stsJob": 10001, "quantity": 5,
		"importer": "ImpAlpha Co", "exporter": "ExpBeta Ltd",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body)
	}
	var shipment models.Shipment
	if err := json.Unmarshal(w.Body.Bytes(), &shipment); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if shipment.ID == "" {
		t.Fatal("shipment id not assigned")
	}
	if len(shipment.Locations) != 1 || shipment.Locations[0].Name != models.SentinelLocationName {
		t.Errorf("locations = %+v", shipment.Locations)
	}

	w = doJSON(t, h, http.MethodPatch, "/api/shipments/"+shipment.ID, map[string]any{"cleared": true})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &shipment); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !shipment.Cleared || shipment.ClearanceDate == nil {
		t.Errorf("clearance not reconciled: %+v", shipment)
	}

	w = doJSON(t, h, http.MethodPost, "/api/shipments/"+shipment.ID+"/printed", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("printed status = %d", w.Code)
	}

	w = doJSON(t, h, http.MethodGet, "/api/loads/sts2990/shipments", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var list []models.Shipment
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].ReleasedAt == nil {
		t.Errorf("list = %+v", list)
	}

	w = doJSON(t, h, http.MethodDelete, "/api/shipments/"+shipment.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
}

func TestAddShipment_ValidationError(t *testing.T) {
	_, h := newTestRouter(t)

	w := doJSON(t, h, http.MethodPost, "/api/shipments", map[string]any{
		"loadId": "STS2990", "stsJob": 10001, "quantity": 0,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestQuizItemsAndReports(t *testing.T) {
	eng, h := newTestRouter(t)
	if err := eng.AddLoad(warehouse.LoadForm{ID: "STS2990", Company: "Cardinal Maritime"}); err != nil {
		t.Fatal(err)
	}
	shipment, err := eng.AddShipment(warehouse.ShipmentForm{
		LoadID: "STS2990", StsJob: 10001, Quantity: 5,
		Importer: "ImpAlpha Co", Exporter: "ExpBeta Ltd",
	})
	if err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, h, http.MethodGet, "/api/quiz/items?loadId=STS2990", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("items status = %d", w.Code)
	}
	var items []models.QuizItem
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].ShipmentID != shipment.ID {
		t.Fatalf("items = %+v", items)
	}

	report := map[string]any{
		"completedBy": "dave",
		"items": []map[string]any{
			{"id": items[0].ID, "shipmentId": shipment.ID, "userAnswer": "yes"},
		},
	}
	w = doJSON(t, h, http.MethodPost, "/api/reports", report)
	if w.Code != http.StatusCreated {
		t.Fatalf("report status = %d, body %s", w.Code, w.Body)
	}

	w = doJSON(t, h, http.MethodGet, "/api/reports", nil)
	var reports []models.QuizReport
	if err := json.Unmarshal(w.Body.Bytes(), &reports); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(reports) != 1 || reports[0].CompletedBy != "dave" {
		t.Errorf("reports = %+v", reports)
	}
}

func TestAddReport_BadAnswer(t *testing.T) {
	_, h := newTestRouter(t)

	w := doJSON(t, h, http.MethodPost, "/api/reports", map[string]any{
		"completedBy": "dave",
		"items":       []map[string]any{{"id": "x::y", "userAnswer": "maybe"}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestShipmentLabelPNG(t *testing.T) {
	eng, err := warehouse.New(store.NewMemory())
	if err != nil {
		t.Fatal(err)
	}
	renderer, err := label.NewRenderer(label.Spec{WidthMM: 150, HeightMM: 108, DPI: 100, Supersample: 1})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	h := NewRouter(StartOpts{Engine: eng, Renderer: renderer})

	if err := eng.AddLoad(warehouse.LoadForm{ID: "STS2990"}); err != nil {
		t.Fatal(err)
	}
	shipment, err := eng.AddShipment(warehouse.ShipmentForm{
		LoadID: "STS2990", StsJob: 10001, Quantity: 5,
		Importer: "ImpAlpha Co", Exporter: "ExpBeta Ltd",
	})
	if err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, h, http.MethodGet, "/api/shipments/"+shipment.ID+"/label.png", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	wantW, wantH := renderer.Bounds()
	if img.Bounds().Dx() != wantW || img.Bounds().Dy() != wantH {
		t.Errorf("label = %dx%d, want %dx%d", img.Bounds().Dx(), img.Bounds().Dy(), wantW, wantH)
	}
}

func TestShipmentLabel_NoRenderer(t *testing.T) {
	_, h := newTestRouter(t)
	w := doJSON(t, h, http.MethodGet, "/api/shipments/ship-1/label.png", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestExport_NotConfigured(t *testing.T) {
	eng, h := newTestRouter(t)
	if err := eng.AddLoad(warehouse.LoadForm{ID: "STS2990"}); err != nil {
		t.Fatal(err)
	}
	w := doJSON(t, h, http.MethodPost, "/api/loads/STS2990/export/pdf", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestSSE_SendsConnectedAndChange(t *testing.T) {
	eng, h := newTestRouter(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /api/events: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	readUntil := func(substr string) string {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("stream ended before %q: %v", substr, err)
			}
			if strings.Contains(line, substr) {
				return line
			}
		}
	}

	readUntil("event: connected")

	// The handler subscribes right after the connected event; give it a
	// beat before mutating.
	time.Sleep(100 * time.Millisecond)
	if err := eng.AddLoad(warehouse.LoadForm{ID: "STS2990"}); err != nil {
		t.Fatal(err)
	}

	line := readUntil("load.added")
	if !strings.Contains(line, `"id":"STS2990"`) {
		t.Errorf("change event = %q", line)
	}
}
