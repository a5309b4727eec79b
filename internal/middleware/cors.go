package middleware

import (
	"net/http"
	"strings"
)

// corsPolicy はCORS_ALLOWED_ORIGINから組み立てた許可オリジンの集合。
type corsPolicy struct {
	anyOrigin bool
	origins   map[string]struct{}
}

// parseCORSPolicy はカンマ区切りのオリジン一覧を解析する。"*" を含む場合は全オリジンを許可する。
func parseCORSPolicy(allowedOrigins string) corsPolicy {
	p := corsPolicy{origins: make(map[string]struct{})}
	for _, origin := range strings.Split(allowedOrigins, ",") {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		switch origin {
		case "":
		case "*":
			p.anyOrigin = true
		default:
			p.origins[origin] = struct{}{}
		}
	}
	return p
}

// allowOrigin はレスポンスのAccess-Control-Allow-Originに入れる値を返す。
// 許可しないオリジンの場合はfalseを返す。
func (p corsPolicy) allowOrigin(origin string) (string, bool) {
	if p.anyOrigin {
		return "*", true
	}
	if _, ok := p.origins[origin]; ok {
		return origin, true
	}
	return "", false
}

// NewCORSMiddleware はCORS_ALLOWED_ORIGIN（"*" またはカンマ区切りのオリジン一覧）に従うCORSミドルウェアを返す。
// 一覧指定の場合はリクエストのOriginが一致したときだけそのOriginを返し、credentialsを許可する。
// ワイルドカードの場合はcredentialsを許可しない。
// OPTIONSプリフライトリクエストには204で応答する。
func NewCORSMiddleware(allowedOrigins string) func(next http.Handler) http.Handler {
	policy := parseCORSPolicy(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if !policy.anyOrigin {
				h.Add("Vary", "Origin")
			}

			if allowed, ok := policy.allowOrigin(r.Header.Get("Origin")); ok {
				h.Set("Access-Control-Allow-Origin", allowed)
				h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
				h.Set("Access-Control-Expose-Headers", RequestIDHeader)
				h.Set("Access-Control-Max-Age", "86400")
				if !policy.anyOrigin {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
