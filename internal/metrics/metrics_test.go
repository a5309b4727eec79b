package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// findMetric は名前とラベルが一致するメトリクスを返す。
func findMetric(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue next
				}
			}
			return m
		}
	}
	return nil
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// recordedRequest はrecordingCollectorが受け取った1回分の記録。
type recordedRequest struct {
	method string
	route  string
	status int
}

type recordingCollector struct {
	requests []recordedRequest
}

func (c *recordingCollector) RecordRequest(method, route string, statusCode int, duration time.Duration) {
	c.requests = append(c.requests, recordedRequest{method: method, route: route, status: statusCode})
}

// TestInstrumentHandler_RecordsEachRequest は任意のMetricsCollectorに記録が渡ることを検証する。
func TestInstrumentHandler_RecordsEachRequest(t *testing.T) {
	rec := &recordingCollector{}

	r := chi.NewRouter()
	r.Use(InstrumentHandler(rec))
	r.Delete("/api/favorite/planet/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/api/users", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/favorite/planet/3", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/users", nil))

	want := []recordedRequest{
		{method: http.MethodDelete, route: "/api/favorite/planet/{id}", status: http.StatusOK},
		{method: http.MethodPost, route: "/api/users", status: http.StatusConflict},
	}
	if len(rec.requests) != len(want) {
		t.Fatalf("recorded %d requests, want %d", len(rec.requests), len(want))
	}
	for i, w := range want {
		if rec.requests[i] != w {
			t.Errorf("request[%d] = %+v, want %+v", i, rec.requests[i], w)
		}
	}
}

// TestMiddleware_InFlightReturnsToZero はリクエスト完了後に処理中ゲージが0に戻ることを検証する。
func TestMiddleware_InFlightReturnsToZero(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	var during float64
	handler := c.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = findMetric(t, reg, "holocron_http_requests_in_flight", nil).GetGauge().GetValue()
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/people", nil))

	if during != 1 {
		t.Errorf("in-flight during request = %v, want 1", during)
	}
	if after := findMetric(t, reg, "holocron_http_requests_in_flight", nil).GetGauge().GetValue(); after != 0 {
		t.Errorf("in-flight after request = %v, want 0", after)
	}
}

// TestRecordRequest_IncrementsCounter はリクエストカウンタとヒストグラムが記録されることを検証する。
func TestRecordRequest_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest("GET", "/api/people", 200, 10*time.Millisecond)
	c.RecordRequest("GET", "/api/people", 200, 20*time.Millisecond)
	c.RecordRequest("GET", "/api/people/{id}", 404, time.Millisecond)

	m := findMetric(t, reg, "holocron_http_requests_total", map[string]string{
		"method": "GET", "route": "/api/people", "status_code": "200",
	})
	if m == nil {
		t.Fatal("holocron_http_requests_total{route=/api/people} not found")
	}
	if val := m.GetCounter().GetValue(); val != 2 {
		t.Errorf("requests_total = %v, want 2", val)
	}

	h := findMetric(t, reg, "holocron_http_request_duration_seconds", map[string]string{
		"method": "GET", "route": "/api/people",
	})
	if h == nil {
		t.Fatal("duration histogram not found")
	}
	if count := h.GetHistogram().GetSampleCount(); count != 2 {
		t.Errorf("sample count = %d, want 2", count)
	}
}

// TestMiddleware_UsesRoutePattern はchiのルートパターンがラベルに使われることを検証する。
func TestMiddleware_UsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	r := chi.NewRouter()
	r.Use(c.Middleware())
	r.Get("/api/planets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/planets/42", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if m := findMetric(t, reg, "holocron_http_requests_total", map[string]string{
		"route": "/api/planets/{id}", "status_code": "404",
	}); m == nil {
		t.Error("expected metric labelled with route pattern")
	}
	if m := findMetric(t, reg, "holocron_http_requests_total", map[string]string{
		"route": unmatchedRoute,
	}); m == nil {
		t.Error("expected unmatched route label for unknown path")
	}
}

// TestMiddleware_DefaultsTo200 はWriteHeaderを呼ばないハンドラーを200として記録することを検証する。
func TestMiddleware_DefaultsTo200(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	handler := c.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if m := findMetric(t, reg, "holocron_http_requests_total", map[string]string{"status_code": "200"}); m == nil {
		t.Error("expected status_code=200 metric")
	}
}

// TestHandler_ServesMetrics はスクレイプ用ハンドラーがメトリクスを返すことを検証する。
func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRequest("POST", "/api/users", 201, time.Millisecond)

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "holocron_http_requests_total") {
		t.Error("response should contain holocron_http_requests_total metric")
	}
}
