package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/holocron/internal/middleware"
)

// MetricsMiddleware はリクエストメトリクスを記録するミドルウェアを提供する。
type MetricsMiddleware interface {
	Middleware() func(next http.Handler) http.Handler
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	CurrentUserID     int64
	Metrics           MetricsMiddleware

	// 運用
	HealthChecker  HealthChecker
	MetricsHandler http.Handler

	// リソース
	PeopleService   PeopleServiceInterface
	PlanetService   PlanetServiceInterface
	UserService     UserServiceInterface
	FavoriteService FavoriteServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CurrentUser → Logging → Metrics → Recovery → SecurityHeaders → CORS → StripSlashes
//
// Recoveryはpanicを500に変換するため、LoggingとMetricsより内側に置く。
//
// MetricsとMetricsHandler、HealthCheckerは未設定の場合は登録しない。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.NewCurrentUserMiddleware(deps.CurrentUserID))
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}
	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	// 末尾スラッシュの有無を区別しない
	r.Use(chimiddleware.StripSlashes)

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	peopleHandler := NewPeopleHandler(deps.PeopleService)
	planetHandler := NewPlanetHandler(deps.PlanetService)
	userHandler := NewUserHandler(deps.UserService)
	favoriteHandler := NewFavoriteHandler(deps.FavoriteService)

	// サイトインデックス
	r.Get("/", NewSiteIndexHandler(r))

	// 人物
	r.Get("/api/people", peopleHandler.List)
	r.Post("/api/people", peopleHandler.Create)
	r.Get("/api/people/{id:[0-9]+}", peopleHandler.Get)

	// 惑星
	r.Get("/api/planets", planetHandler.List)
	r.Post("/api/planets", planetHandler.Create)
	r.Get("/api/planets/{id:[0-9]+}", planetHandler.Get)

	// ユーザー
	r.Get("/api/users", userHandler.List)
	r.Post("/api/users", userHandler.Create)
	r.Get("/api/users/{id:[0-9]+}", userHandler.Get)
	r.Get("/api/users/favorites", favoriteHandler.List)

	// お気に入り
	r.Post("/api/favorite/people/{id:[0-9]+}", favoriteHandler.AddPerson)
	r.Delete("/api/favorite/people/{id:[0-9]+}", favoriteHandler.RemovePerson)
	r.Post("/api/favorite/planet/{id:[0-9]+}", favoriteHandler.AddPlanet)
	r.Delete("/api/favorite/planet/{id:[0-9]+}", favoriteHandler.RemovePlanet)

	// 運用エンドポイント
	if deps.HealthChecker != nil {
		r.Get("/health", NewHealthHandler(deps.HealthChecker))
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	return r
}
