package app

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/hitoshi/holocron/internal/config"
)

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はAPIサーバーモードで起動することを示す。サブコマンド省略時のデフォルト。
	CommandServe Command = "serve"
	// CommandMigrate はデータベースマイグレーションを実行することを示す。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// newRootCommand はサブコマンドを登録したルートコマンドを生成する。
// ログはwに出力する。
func newRootCommand(w io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "holocron",
		Short:         "Star Wars people, planets and favorites REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCommand(cmd, w)
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   string(CommandServe),
			Short: "Start the API server",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return serveCommand(cmd, w)
			},
		},
		newMigrateCommand(w),
		newHealthcheckCommand(),
	)

	return root
}

func serveCommand(cmd *cobra.Command, w io.Writer) error {
	cfg, err := Init(w)
	if err != nil {
		return err
	}
	return runServe(cmd.Context(), cfg)
}

func newMigrateCommand(w io.Writer) *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   string(CommandMigrate),
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := Init(w)
			if err != nil {
				return err
			}
			if down {
				return runMigrateDown(cfg)
			}
			return runMigrate(cfg)
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll back all migrations")

	return cmd
}

// newHealthcheckCommand は軽量サブコマンドのため、設定の読み込みと検証をスキップする。
func newHealthcheckCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   string(CommandHealthcheck),
		Short: "Probe the /health endpoint of a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = config.ResolvePort()
			}
			return runHealthcheck(cmd.Context(), port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "server port (default: SERVER_PORT, PORT or 3000)")

	return cmd
}
