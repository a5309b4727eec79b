package repository

import "database/sql"

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// nullString はsql.NullStringを任意フィールド用のポインタに変換する。
func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// nullable はnilポインタをSQLのNULLに、それ以外を値に変換してクエリ引数とする。
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
