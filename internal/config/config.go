// Package config は環境変数からアプリケーション設定を読み込む。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/holocron/internal/database"
)

// DefaultDatabaseURL はDATABASE_URL未設定時に使うSQLiteの保存先。
const DefaultDatabaseURL = "sqlite:///tmp/holocron.db"

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string
	AutoMigrate bool

	// Server
	ServerPort      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// CORS（"*" またはカンマ区切りのオリジン一覧）
	CORSAllowedOrigin string

	// Identity
	CurrentUserID int64

	// Password
	BcryptCost int

	// Logging
	LogFormat string
	LogLevel  string
}

// envConfig は環境変数の対応表。PORTはSERVER_PORT未設定時のフォールバック。
type envConfig struct {
	DatabaseURL       string        `env:"DATABASE_URL" envDefault:"sqlite:///tmp/holocron.db"`
	AutoMigrate       bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	ServerPort        string        `env:"SERVER_PORT"`
	Port              string        `env:"PORT" envDefault:"3000"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	CORSAllowedOrigin string        `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`
	CurrentUserID     int64         `env:"CURRENT_USER_ID" envDefault:"1"`
	BcryptCost        int           `env:"BCRYPT_COST" envDefault:"10"`
	LogFormat         string        `env:"LOG_FORMAT" envDefault:"json"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load は環境変数からConfigを読み込む。
// ENV_FILE（デフォルト .env）が存在すれば先に読み込むが、既存の環境変数は上書きしない。
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", envParseError(err))
	}

	cfg := &Config{
		DatabaseURL:       raw.DatabaseURL,
		AutoMigrate:       raw.AutoMigrate,
		ServerPort:        raw.ServerPort,
		ReadTimeout:       raw.ReadTimeout,
		WriteTimeout:      raw.WriteTimeout,
		ShutdownTimeout:   raw.ShutdownTimeout,
		CORSAllowedOrigin: raw.CORSAllowedOrigin,
		CurrentUserID:     raw.CurrentUserID,
		BcryptCost:        raw.BcryptCost,
		LogFormat:         raw.LogFormat,
		LogLevel:          raw.LogLevel,
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = raw.Port
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolvePort はConfig全体を読まずにサーバーポートだけを解決する。
// healthcheckサブコマンドのように設定検証を避けたい場面で使う。
func ResolvePort() string {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		return port
	}
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "3000"
}

func loadEnvFile() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// envParseError はenv.Parseのエラーを環境変数名で言い換える。
// env.ParseErrorはGoのフィールド名しか持たないため、envタグから変数名を引く。
func envParseError(err error) error {
	var aggErr env.AggregateError
	if !errors.As(err, &aggErr) {
		return err
	}

	errs := make([]error, 0, len(aggErr.Errors))
	for _, e := range aggErr.Errors {
		var parseErr env.ParseError
		if !errors.As(e, &parseErr) {
			errs = append(errs, e)
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %w", envKeyForField(parseErr.Name), parseErr.Err))
	}
	return errors.Join(errs...)
}

// envKeyForField はenvConfigのフィールド名に対応する環境変数名を返す。
func envKeyForField(name string) string {
	field, ok := reflect.TypeOf(envConfig{}).FieldByName(name)
	if !ok {
		return name
	}
	if key := field.Tag.Get("env"); key != "" {
		return key
	}
	return name
}

func (c *Config) validate() error {
	var errs []error

	if _, err := database.ParseURL(c.DatabaseURL); err != nil {
		errs = append(errs, fmt.Errorf("DATABASE_URL: %w", err))
	}
	if port, err := strconv.Atoi(c.ServerPort); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT: invalid port %q", c.ServerPort))
	}
	if c.CurrentUserID <= 0 {
		errs = append(errs, fmt.Errorf("CURRENT_USER_ID: must be positive, got %d", c.CurrentUserID))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST: must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost))
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT: must be json or text, got %q", c.LogFormat))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL: must be debug, info, warn or error, got %q", c.LogLevel))
	}
	if c.CORSAllowedOrigin == "" {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGIN: must not be empty"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
