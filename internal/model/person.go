// Package model はドメインモデルを定義する。
package model

// Person は登場人物を表す。Name以外の属性は任意。
type Person struct {
	ID        int64
	Name      string
	Gender    *string
	EyeColor  *string
	BirthYear *string
	Height    *string
	SkinColor *string
}
