// Package model はドメインモデルを定義する。
package model

// User はAPIの利用ユーザーを表す。
// PasswordHashはbcryptハッシュであり、シリアライズ対象には含めない。
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsActive     bool
}
