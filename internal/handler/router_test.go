package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"

	"github.com/hitoshi/holocron/internal/metrics"
	"github.com/hitoshi/holocron/internal/model"
)

type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) PingContext(ctx context.Context) error { return m.err }

// newTestRouter はモックサービスで構成したルーターを返す。
func newTestRouter(deps *RouterDeps) http.Handler {
	if deps == nil {
		deps = &RouterDeps{}
	}
	if deps.CORSAllowedOrigin == "" {
		deps.CORSAllowedOrigin = "*"
	}
	if deps.CurrentUserID == 0 {
		deps.CurrentUserID = 1
	}
	if deps.PeopleService == nil {
		deps.PeopleService = &mockPeopleService{}
	}
	if deps.PlanetService == nil {
		deps.PlanetService = &mockPlanetService{}
	}
	if deps.UserService == nil {
		deps.UserService = &mockUserService{}
	}
	if deps.FavoriteService == nil {
		deps.FavoriteService = &mockFavoriteService{}
	}
	return NewRouter(deps)
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestRouter_UnknownRoute_ReturnsJSON404(t *testing.T) {
	router := newTestRouter(nil)

	w := serve(router, http.MethodGet, "/api/starships")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if msg := parseAPIErrorResponse(t, w); msg != "Not found" {
		t.Errorf("error = %q, want %q", msg, "Not found")
	}
}

// TestRouter_NonNumericID_Returns404 は数字以外のIDがルートにマッチしないことを検証する。
func TestRouter_NonNumericID_Returns404(t *testing.T) {
	router := newTestRouter(&RouterDeps{
		PeopleService: &mockPeopleService{
			getFn: func(ctx context.Context, id int64) (*model.Person, error) {
				t.Fatal("service should not be called")
				return nil, nil
			},
		},
	})

	for _, path := range []string{"/api/people/abc", "/api/people/-1", "/api/favorite/planet/1.5"} {
		w := serve(router, http.MethodGet, path)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want %d", path, w.Code, http.StatusNotFound)
		}
	}
}

func TestRouter_WrongMethod_Returns405(t *testing.T) {
	router := newTestRouter(nil)

	w := serve(router, http.MethodPut, "/api/people")

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
	if msg := parseAPIErrorResponse(t, w); msg != "Method not allowed" {
		t.Errorf("error = %q, want %q", msg, "Method not allowed")
	}
}

// TestRouter_TrailingSlash は末尾スラッシュの有無にかかわらず同じルートにマッチすることを検証する。
func TestRouter_TrailingSlash(t *testing.T) {
	router := newTestRouter(nil)

	for _, path := range []string{"/api/planets", "/api/planets/"} {
		w := serve(router, http.MethodGet, path)
		if w.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want %d", path, w.Code, http.StatusOK)
		}
	}
}

// TestRouter_UsersFavorites_NotShadowedByID は /api/users/favorites が {id} ルートに吸収されないことを検証する。
func TestRouter_UsersFavorites_NotShadowedByID(t *testing.T) {
	called := false
	router := newTestRouter(&RouterDeps{
		CurrentUserID: 9,
		FavoriteService: &mockFavoriteService{
			listFn: func(ctx context.Context, userID int64) ([]*model.Favorite, error) {
				called = true
				if userID != 9 {
					t.Errorf("userID = %d, want 9", userID)
				}
				return nil, nil
			},
		},
	})

	w := serve(router, http.MethodGet, "/api/users/favorites")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !called {
		t.Error("favorite list handler should be called")
	}
}

func TestRouter_PanicReturnsJSON500(t *testing.T) {
	router := newTestRouter(&RouterDeps{
		PlanetService: &mockPlanetService{
			listFn: func(ctx context.Context) ([]*model.Planet, error) {
				panic("unexpected")
			},
		},
	})

	w := serve(router, http.MethodGet, "/api/planets")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if msg := parseAPIErrorResponse(t, w); msg != "Internal server error" {
		t.Errorf("error = %q, want %q", msg, "Internal server error")
	}
}

// statusRecordingMetrics はRecordRequestで受け取ったステータスを保持する。
type statusRecordingMetrics struct {
	statuses []int
}

func (m *statusRecordingMetrics) RecordRequest(method, route string, statusCode int, duration time.Duration) {
	m.statuses = append(m.statuses, statusCode)
}

func (m *statusRecordingMetrics) Middleware() func(next http.Handler) http.Handler {
	return metrics.InstrumentHandler(m)
}

// TestRouter_PanicIsLoggedAndCounted はpanicによる500がアクセスログとメトリクスに残ることを検証する。
func TestRouter_PanicIsLoggedAndCounted(t *testing.T) {
	var buf bytes.Buffer
	rec := &statusRecordingMetrics{}
	router := newTestRouter(&RouterDeps{
		Logger:  slog.New(slog.NewJSONHandler(&buf, nil)),
		Metrics: rec,
		PeopleService: &mockPeopleService{
			listFn: func(ctx context.Context) ([]*model.Person, error) {
				panic("unexpected")
			},
		},
	})

	w := serve(router, http.MethodGet, "/api/people")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	if len(rec.statuses) != 1 || rec.statuses[0] != http.StatusInternalServerError {
		t.Errorf("recorded statuses = %v, want [500]", rec.statuses)
	}

	var accessLog map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		if entry["msg"] == "http_request" {
			accessLog = entry
		}
	}
	if accessLog == nil {
		t.Fatalf("http_request log line not found in %s", buf.String())
	}
	if accessLog["status"] != float64(http.StatusInternalServerError) {
		t.Errorf("logged status = %v, want 500", accessLog["status"])
	}
	if accessLog["level"] != "ERROR" {
		t.Errorf("logged level = %v, want ERROR", accessLog["level"])
	}
}

func TestRouter_SetsCommonHeaders(t *testing.T) {
	router := newTestRouter(nil)

	w := serve(router, http.MethodGet, "/api/people")

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "*")
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want %q", got, "nosniff")
	}
	if got := w.Header().Get("X-Request-ID"); got == "" {
		t.Error("X-Request-ID should be set")
	}
}

func TestRouter_Health(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantBody   string
	}{
		{"healthy", nil, http.StatusOK, "ok"},
		{"database down", errors.New("connection refused"), http.StatusServiceUnavailable, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&RouterDeps{HealthChecker: &mockHealthChecker{err: tt.pingErr}})

			w := serve(router, http.MethodGet, "/health")

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if body := decodeBody(t, w); body["status"] != tt.wantBody {
				t.Errorf("status = %v, want %q", body["status"], tt.wantBody)
			}
		})
	}
}

// TestRouter_OptionalEndpointsNotRegistered は依存が未設定の運用エンドポイントが404になることを検証する。
func TestRouter_OptionalEndpointsNotRegistered(t *testing.T) {
	router := newTestRouter(nil)

	for _, path := range []string{"/health", "/metrics"} {
		if w := serve(router, http.MethodGet, path); w.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want %d", path, w.Code, http.StatusNotFound)
		}
	}
}

func TestRouter_MetricsHandlerMounted(t *testing.T) {
	router := newTestRouter(&RouterDeps{
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("# metrics"))
		}),
	})

	w := serve(router, http.MethodGet, "/metrics")

	if w.Code != http.StatusOK || w.Body.String() != "# metrics" {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
}

// --- サイトインデックス ---

// siteIndexEntries はサイトインデックスHTMLの<li>の文字列とリンク先を抽出する。
func siteIndexEntries(t *testing.T, body string) (items []string, links []string) {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}

	var text func(n *html.Node) string
	text = func(n *html.Node) string {
		if n.Type == html.TextNode {
			return n.Data
		}
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			sb.WriteString(text(c))
		}
		return sb.String()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "li":
				items = append(items, strings.Join(strings.Fields(text(n)), " "))
			case "a":
				for _, attr := range n.Attr {
					if attr.Key == "href" {
						links = append(links, attr.Val)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return items, links
}

func TestRouter_SiteIndex_ListsEveryRoute(t *testing.T) {
	router := newTestRouter(&RouterDeps{HealthChecker: &mockHealthChecker{}})

	w := serve(router, http.MethodGet, "/")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}

	items, links := siteIndexEntries(t, w.Body.String())

	wantItems := []string{
		"GET /api/people",
		"POST /api/people",
		"GET /api/people/{id}",
		"GET /api/planets",
		"POST /api/planets",
		"GET /api/planets/{id}",
		"GET /api/users",
		"POST /api/users",
		"GET /api/users/{id}",
		"GET /api/users/favorites",
		"POST /api/favorite/people/{id}",
		"DELETE /api/favorite/people/{id}",
		"POST /api/favorite/planet/{id}",
		"DELETE /api/favorite/planet/{id}",
		"GET /health",
	}
	have := map[string]bool{}
	for _, it := range items {
		have[it] = true
	}
	for _, want := range wantItems {
		if !have[want] {
			t.Errorf("site index missing %q; got %v", want, items)
		}
	}

	// パラメータを含むルートとGET以外はリンクにしない
	for _, link := range links {
		if strings.Contains(link, "{") {
			t.Errorf("link %q should not contain a route parameter", link)
		}
	}
	wantLinks := map[string]bool{"/api/people": false, "/api/users/favorites": false}
	for _, link := range links {
		if _, ok := wantLinks[link]; ok {
			wantLinks[link] = true
		}
	}
	for link, found := range wantLinks {
		if !found {
			t.Errorf("expected link to %s", link)
		}
	}
}
