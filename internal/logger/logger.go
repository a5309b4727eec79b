// Package logger はslogベースの構造化ログの初期化を提供する。
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// 出力フォーマット
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Options はロガーの出力設定。
type Options struct {
	// Format はjsonまたはtext。textはローカル開発向けの色付き出力。
	Format string
	// Level はdebug、info、warn、errorのいずれか。不明な値はinfoとして扱う。
	Level string
}

// Setup は指定された設定でslog.Loggerを生成して返す。
// 未指定の場合はINFOレベルのJSON出力になる。
func Setup(w io.Writer, opts Options) *slog.Logger {
	level := ParseLevel(opts.Level)

	var handler slog.Handler
	if opts.Format == FormatText {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(handler)
}

// SetupDefault はINFOレベルのJSON構造化ログ出力をグローバルロガーとして設定する。
// 設定読み込み前でもログを使えるようにするため、起動直後に呼び出す。
// writerがnilの場合はos.Stdoutに出力する。
func SetupDefault(w io.Writer) *slog.Logger {
	return Configure(w, Options{Format: FormatJSON})
}

// Configure は指定された設定のロガーをグローバルロガーとして設定して返す。
func Configure(w io.Writer, opts Options) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	logger := Setup(w, opts)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel はログレベル名をslog.Levelに変換する。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
