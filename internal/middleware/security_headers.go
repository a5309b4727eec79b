package middleware

import (
	"net/http"
	"strings"
)

// apiContentSecurityPolicy はJSONレスポンス用のCSP。どのリソースの読み込みも許可しない。
const apiContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'"

// siteIndexContentSecurityPolicy はHTMLのサイトインデックス用のCSP。
// ページ内リンクの遷移のみを想定する。
const siteIndexContentSecurityPolicy = "default-src 'none'; base-uri 'none'; form-action 'none'; frame-ancestors 'none'"

// NewSecurityHeadersMiddleware はセキュリティ関連のHTTPレスポンスヘッダーを付与するミドルウェアを返す。
// /api 配下のレスポンスはキャッシュさせない。
func NewSecurityHeadersMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")

			if isAPIPath(r.URL.Path) {
				h.Set("Content-Security-Policy", apiContentSecurityPolicy)
				h.Set("Cache-Control", "no-store")
			} else {
				h.Set("Content-Security-Policy", siteIndexContentSecurityPolicy)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}
