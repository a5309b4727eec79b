// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// unmatchedRoute はルーティングされなかったリクエストのラベル値。
// 任意のパスをラベルにするとカーディナリティが爆発するため固定値にまとめる。
const unmatchedRoute = "unmatched"

// MetricsCollector はリクエスト単位の計測結果を受け取る。
// InstrumentHandlerの記録先。
type MetricsCollector interface {
	RecordRequest(method, route string, statusCode int, duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "holocron_http_requests_total",
			Help: "ルート・メソッド・ステータスコード別のHTTPリクエスト数",
		}, []string{"method", "route", "status_code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "holocron_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "holocron_http_requests_in_flight",
			Help: "処理中のHTTPリクエスト数",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.duration,
		c.inFlight,
	)

	return c
}

// RecordRequest はHTTPリクエストの結果と処理時間を記録する。
func (c *Collector) RecordRequest(method, route string, statusCode int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.duration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Middleware はリクエストごとにメトリクスを記録するミドルウェアを返す。
// 処理中のリクエスト数もあわせて計測する。
func (c *Collector) Middleware() func(next http.Handler) http.Handler {
	instrument := InstrumentHandler(c)
	return func(next http.Handler) http.Handler {
		instrumented := instrument(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.inFlight.Inc()
			defer c.inFlight.Dec()
			instrumented.ServeHTTP(w, r)
		})
	}
}

// InstrumentHandler はリクエストのメソッド・ルート・ステータス・処理時間をrecに渡すミドルウェアを返す。
// ルートラベルにはchiのルートパターン（例: /api/people/{id}）を使う。
func InstrumentHandler(rec MetricsCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			rec.RecordRequest(r.Method, routePattern(r), status, time.Since(start))
		})
	}
}

// routePattern はマッチしたchiのルートパターンを返す。
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
