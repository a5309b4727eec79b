// Package app はプロセスの起動とサブコマンドの実行を担う。
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/holocron/internal/config"
	"github.com/hitoshi/holocron/internal/database"
	"github.com/hitoshi/holocron/internal/favorite"
	"github.com/hitoshi/holocron/internal/handler"
	"github.com/hitoshi/holocron/internal/logger"
	"github.com/hitoshi/holocron/internal/metrics"
	"github.com/hitoshi/holocron/internal/people"
	"github.com/hitoshi/holocron/internal/planet"
	"github.com/hitoshi/holocron/internal/repository"
	"github.com/hitoshi/holocron/internal/user"
)

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップしてから環境変数を読み込み、
// 設定されたフォーマットとレベルでロガーを再構成する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定に従ってロガーを再構成する
	logger.Configure(w, logger.Options{Format: cfg.LogFormat, Level: cfg.LogLevel})

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// argsにはos.Args[1:]を渡す。SIGINTまたはSIGTERMを受信するとコンテキストをキャンセルする。
func Run(w io.Writer, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return RunContext(ctx, w, args)
}

// RunContext は指定されたコンテキストでサブコマンドを実行する。
func RunContext(ctx context.Context, w io.Writer, args []string) error {
	root := newRootCommand(w)
	root.SetArgs(args)
	root.SetOut(w)
	root.SetErr(w)
	return root.ExecuteContext(ctx)
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// コンテキストがキャンセルされるとグレースフルシャットダウンを行う。
func runServe(ctx context.Context, cfg *config.Config) error {
	slog.Info("starting application",
		slog.String("command", string(CommandServe)),
		slog.String("port", cfg.ServerPort),
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	// 1. マイグレーション
	if cfg.AutoMigrate {
		if err := runMigrate(cfg); err != nil {
			return err
		}
	}

	// 2. DB接続
	db, dialect, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established", slog.String("dialect", string(dialect)))

	// 3. HTTPサーバーの構築
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      newHandler(cfg, db, dialect, reg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return serveUntilDone(ctx, server, cfg.ShutdownTimeout)
}

// newHandler はリポジトリ・サービス・ルーターを組み立てる。
func newHandler(cfg *config.Config, db *sql.DB, dialect database.Dialect, reg *prometheus.Registry) http.Handler {
	// リポジトリの初期化
	userRepo := repository.NewSQLUserRepo(db, dialect)
	personRepo := repository.NewSQLPersonRepo(db, dialect)
	planetRepo := repository.NewSQLPlanetRepo(db, dialect)
	favoriteRepo := repository.NewSQLFavoriteRepo(db, dialect)

	// ドメインサービスの初期化
	peopleService := people.NewService(personRepo)
	planetService := planet.NewService(planetRepo)
	userService := user.NewService(userRepo, user.ServiceConfig{BcryptCost: cfg.BcryptCost})
	favoriteService := favorite.NewService(favoriteRepo, personRepo, planetRepo)

	return handler.NewRouter(&handler.RouterDeps{
		Logger:            slog.Default(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		CurrentUserID:     cfg.CurrentUserID,
		Metrics:           metrics.NewCollector(reg),

		HealthChecker:  db,
		MetricsHandler: metrics.Handler(reg),

		PeopleService:   peopleService,
		PlanetService:   planetService,
		UserService:     userService,
		FavoriteService: favoriteService,
	})
}

// serveUntilDone はサーバーを起動し、コンテキストのキャンセルで停止する。
// 起動に失敗した場合はそのエラーを返す。
func serveUntilDone(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server listen error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runMigrateDown は適用済みのマイグレーションをすべてロールバックする。
func runMigrateDown(cfg *config.Config) error {
	slog.Warn("rolling back all database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RollbackMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration rollback failed: %w", err)
	}

	slog.Info("database migrations rolled back")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(ctx context.Context, port string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://localhost:%s/health", port), nil)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	return u.Redacted()
}
