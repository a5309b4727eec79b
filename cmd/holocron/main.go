// Command holocron はStar Warsの人物・惑星とお気に入りを扱うREST APIサーバー。
//
// 使い方:
//
//	holocron              # APIサーバーを起動する（serveと同じ）
//	holocron serve        # APIサーバーを起動する
//	holocron migrate      # マイグレーションを適用する
//	holocron migrate --down
//	holocron healthcheck  # 稼働中サーバーの /health を確認する
package main

import (
	"log/slog"
	"os"

	"github.com/hitoshi/holocron/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
