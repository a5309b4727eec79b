// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

var (
	// userIDContextKey はリクエストコンテキストに現在のユーザーIDを格納するためのキー。
	userIDContextKey = contextKey("user_id")
	// requestIDContextKey はリクエストIDを格納するためのキー。
	requestIDContextKey = contextKey("request_id")
)

// NewCurrentUserMiddleware は設定された現在のユーザーIDをリクエストコンテキストに注入するミドルウェアを返す。
// 認証は行わない。ハンドラーはUserIDFromContextで取り出したIDをサービスへ明示的に渡す。
func NewCurrentUserMiddleware(userID int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ContextWithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext はリクエストコンテキストから現在のユーザーIDを取得する。
func UserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	if !ok || userID <= 0 {
		return 0, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// RequestIDFromContext はロギングミドルウェアが採番したリクエストIDを返す。
// 未設定の場合は空文字列。
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}
