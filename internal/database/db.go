package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect は接続先データベースのSQL方言を表す。
type Dialect string

const (
	// DialectPostgres はPostgreSQL（lib/pq）を表す。
	DialectPostgres Dialect = "postgres"
	// DialectSQLite はSQLite（modernc.org/sqlite）を表す。
	DialectSQLite Dialect = "sqlite"
)

// sqliteBusyTimeout は書き込みロック待ちの上限（ミリ秒）。
const sqliteBusyTimeout = 5000

// Target はDATABASE_URLを解析した接続先を表す。
type Target struct {
	Dialect Dialect
	// DSN はdatabase/sqlのドライバに渡す接続文字列。
	DSN string
	// MigrateURL はgolang-migrateに渡すURL。
	MigrateURL string
}

// ParseURL はDATABASE_URLから方言と接続文字列を決定する。
//
//	postgres://... / postgresql://...  → PostgreSQL
//	sqlite://<path>                    → SQLiteファイル
func ParseURL(databaseURL string) (Target, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return Target{
			Dialect:    DialectPostgres,
			DSN:        databaseURL,
			MigrateURL: databaseURL,
		}, nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		path := strings.TrimPrefix(databaseURL, "sqlite://")
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		if path == "" {
			return Target{}, fmt.Errorf("sqlite database path is empty: %q", databaseURL)
		}
		return Target{
			Dialect:    DialectSQLite,
			DSN:        path + "?_pragma=busy_timeout(" + strconv.Itoa(sqliteBusyTimeout) + ")",
			MigrateURL: "sqlite://" + path,
		}, nil
	default:
		return Target{}, fmt.Errorf("unsupported database URL scheme: %q", databaseURL)
	}
}

// Open はDATABASE_URLに対応するデータベース接続を開き、方言とともに返す。
// sql.Openは接続を試行しないため、実際の接続確認にはdb.Ping()を使用すること。
func Open(databaseURL string) (*sql.DB, Dialect, error) {
	target, err := ParseURL(databaseURL)
	if err != nil {
		return nil, "", err
	}

	driverName := "postgres"
	if target.Dialect == DialectSQLite {
		driverName = "sqlite"
		if err := ensureParentDir(target.MigrateURL); err != nil {
			return nil, "", err
		}
	}

	db, err := sql.Open(driverName, target.DSN)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}

	return db, target.Dialect, nil
}

// ensureParentDir はSQLiteファイルの親ディレクトリを作成する。
func ensureParentDir(migrateURL string) error {
	dir := filepath.Dir(strings.TrimPrefix(migrateURL, "sqlite://"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}

// Rebind は "?" プレースホルダのクエリを方言に合わせて書き換える。
// PostgreSQLでは $1, $2, ... に置換し、SQLiteではそのまま返す。
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
