package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
)

// routeParamPattern はルートパターン中の正規表現付きパラメータ（例: {id:[0-9]+}）にマッチする。
var routeParamPattern = regexp.MustCompile(`\{([^}:]+):[^}]*\}`)

var siteIndexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Holocron API</title>
</head>
<body>
<h1>Holocron API</h1>
<p>Available endpoints:</p>
<ul>
{{- range .}}
<li><code>{{.Method}}</code> {{if .Linkable}}<a href="{{.Path}}">{{.Path}}</a>{{else}}{{.Path}}{{end}}</li>
{{- end}}
</ul>
</body>
</html>
`))

// siteRoute はサイトインデックスに表示する1ルート。
type siteRoute struct {
	Method   string
	Path     string
	Linkable bool
}

// NewSiteIndexHandler は登録済みの全ルートを列挙するHTMLページのハンドラーを返す。
// ルートは表示のたびにchi.Walkで取得するため、後から追加されたルートも反映される。
func NewSiteIndexHandler(routes chi.Routes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := collectRoutes(routes)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := siteIndexTemplate.Execute(w, list); err != nil {
			slog.Error("failed to render site index", slog.String("error", err.Error()))
		}
	}
}

// collectRoutes はルーターを走査してパス・メソッド順に並べたルート一覧を返す。
func collectRoutes(routes chi.Routes) ([]siteRoute, error) {
	var list []siteRoute
	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		path := routeParamPattern.ReplaceAllString(route, "{$1}")
		if len(path) > 1 {
			path = strings.TrimSuffix(path, "/")
		}
		list = append(list, siteRoute{
			Method:   method,
			Path:     path,
			Linkable: method == http.MethodGet && !strings.Contains(path, "{"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Path != list[j].Path {
			return list[i].Path < list[j].Path
		}
		return list[i].Method < list[j].Method
	})
	return list, nil
}
