package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// trackingWriter はハンドラーがレスポンスを書き始めたかどうかを記録する。
type trackingWriter struct {
	http.ResponseWriter
	started bool
}

func (tw *trackingWriter) WriteHeader(statusCode int) {
	tw.started = true
	tw.ResponseWriter.WriteHeader(statusCode)
}

func (tw *trackingWriter) Write(b []byte) (int, error) {
	tw.started = true
	return tw.ResponseWriter.Write(b)
}

func (tw *trackingWriter) Unwrap() http.ResponseWriter {
	return tw.ResponseWriter
}

// NewRecoveryMiddleware はハンドラーのpanicを捕捉し、{"error":"Internal server error"} の500に変換する。
// アクセスログとメトリクスに500を残すため、LoggingとMetricsより内側で使う。
// ハンドラーがすでにレスポンスを書き始めていた場合はステータスを上書きできないため、ログのみ残す。
func NewRecoveryMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tw := &trackingWriter{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// net/httpの中断シグナルはそのまま伝える
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				attrs := []slog.Attr{
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", RequestIDFromContext(r.Context())),
					slog.Bool("response_started", tw.started),
					slog.String("stack", string(debug.Stack())),
				}
				if userID, err := UserIDFromContext(r.Context()); err == nil {
					attrs = append(attrs, slog.Int64("user_id", userID))
				}
				logger.LogAttrs(r.Context(), slog.LevelError, "panic_recovered", attrs...)

				if !tw.started {
					WriteInternalServerError(w)
				}
			}()
			next.ServeHTTP(tw, r)
		})
	}
}
