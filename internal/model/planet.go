// Package model はドメインモデルを定義する。
package model

// Planet は惑星を表す。Name以外の属性は任意。
type Planet struct {
	ID         int64
	Name       string
	Population *string
	Terrain    *string
}
