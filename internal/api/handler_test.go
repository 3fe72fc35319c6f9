package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Hive/internal/domain"
	"github.com/shaiso/Hive/internal/telemetry"
)

type staticWorkers map[string]domain.WorkerStatus

func (s staticWorkers) List() []domain.WorkerStatus {
	list := make([]domain.WorkerStatus, 0, len(s))
	for _, w := range s {
		list = append(list, w)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func (s staticWorkers) Get(name string) (domain.WorkerStatus, bool) {
	w, ok := s[name]
	return w, ok
}

// panickingWorkers паникует на любом запросе.
type panickingWorkers struct{}

func (panickingWorkers) List() []domain.WorkerStatus            { panic("boom") }
func (panickingWorkers) Get(string) (domain.WorkerStatus, bool) { panic("boom") }

func newServer(t *testing.T, workers WorkerSource) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	NewHandler(Config{Workers: workers, Logger: telemetry.Discard()}).RegisterRoutes(mux)
	RegisterProbes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func fixture() staticWorkers {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return staticWorkers{
		"echo-1": {ID: uuid.New(), Name: "echo-1", Service: "echo", State: domain.StateRunning, PID: 101, StartedAt: now, UpdatedAt: now},
		"ticker-1": {ID: uuid.New(), Name: "ticker-1", Service: "ticker", State: domain.StateFailed,
			Error: "spawn failed", StartedAt: now, UpdatedAt: now},
	}
}

func getJSON(t *testing.T, url string, wantStatus int, v any) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: expected status %d, got %d", url, wantStatus, resp.StatusCode)
	}
	if v == nil {
		return
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestListWorkers(t *testing.T) {
	srv := newServer(t, fixture())

	var resp struct {
		Data  []WorkerResponse `json:"data"`
		Total int              `json:"total"`
	}
	getJSON(t, srv.URL+"/api/v1/workers", http.StatusOK, &resp)

	if resp.Total != 2 || len(resp.Data) != 2 {
		t.Fatalf("expected 2 workers, got %+v", resp)
	}
	if resp.Data[0].Name != "echo-1" || resp.Data[0].PID != 101 {
		t.Errorf("unexpected first worker: %+v", resp.Data[0])
	}
	if resp.Data[1].State != domain.StateFailed || resp.Data[1].Error != "spawn failed" {
		t.Errorf("unexpected second worker: %+v", resp.Data[1])
	}
}

func TestListWorkers_FilterByState(t *testing.T) {
	srv := newServer(t, fixture())

	var resp struct {
		Data []WorkerResponse `json:"data"`
	}
	getJSON(t, srv.URL+"/api/v1/workers?state=RUNNING", http.StatusOK, &resp)

	if len(resp.Data) != 1 || resp.Data[0].Name != "echo-1" {
		t.Errorf("expected only echo-1, got %+v", resp.Data)
	}

	var errResp ErrorResponse
	getJSON(t, srv.URL+"/api/v1/workers?state=running", http.StatusBadRequest, &errResp)
	if errResp.Error.Code != ErrCodeBadRequest {
		t.Errorf("expected BAD_REQUEST, got %s", errResp.Error.Code)
	}
}

func TestGetWorker(t *testing.T) {
	srv := newServer(t, fixture())

	var resp struct {
		Data WorkerResponse `json:"data"`
	}
	getJSON(t, srv.URL+"/api/v1/workers/ticker-1", http.StatusOK, &resp)
	if resp.Data.Service != "ticker" {
		t.Errorf("unexpected worker: %+v", resp.Data)
	}

	var errResp ErrorResponse
	getJSON(t, srv.URL+"/api/v1/workers/missing", http.StatusNotFound, &errResp)
	if errResp.Error.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", errResp.Error.Code)
	}
}

func TestSummary(t *testing.T) {
	srv := newServer(t, fixture())

	var resp struct {
		Data SummaryResponse `json:"data"`
	}
	getJSON(t, srv.URL+"/api/v1/summary", http.StatusOK, &resp)

	if resp.Data.Total != 2 || resp.Data.States[domain.StateRunning] != 1 || resp.Data.States[domain.StateFailed] != 1 {
		t.Errorf("unexpected summary: %+v", resp.Data)
	}
}

func TestRecovery(t *testing.T) {
	srv := newServer(t, panickingWorkers{})

	var errResp ErrorResponse
	getJSON(t, srv.URL+"/api/v1/workers", http.StatusInternalServerError, &errResp)
	if errResp.Error.Code != ErrCodeInternalError {
		t.Errorf("expected INTERNAL_ERROR, got %s", errResp.Error.Code)
	}
}

func TestProbes(t *testing.T) {
	srv := newServer(t, fixture())

	getJSON(t, srv.URL+"/healthz", http.StatusOK, nil)
	getJSON(t, srv.URL+"/metrics", http.StatusOK, nil)
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(mark("a"), mark("b"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "handler" {
		t.Errorf("unexpected order: %v", order)
	}
}
