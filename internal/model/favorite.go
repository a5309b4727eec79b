// Package model はドメインモデルを定義する。
package model

import "fmt"

// FavoriteKind はお気に入りの対象種別を表す。
type FavoriteKind string

const (
	// FavoriteKindPerson は人物へのお気に入り。
	FavoriteKindPerson FavoriteKind = "person"
	// FavoriteKindPlanet は惑星へのお気に入り。
	FavoriteKindPlanet FavoriteKind = "planet"
)

// Valid は定義済みの種別かどうかを返す。
func (k FavoriteKind) Valid() bool {
	return k == FavoriteKindPerson || k == FavoriteKindPlanet
}

// Favorite はユーザーによる人物または惑星のブックマークを表す。
// Kindで対象種別を、TargetIDで対象のIDを保持する。
// 対象は常にちょうど1つであり、人物と惑星の両方を同時に参照することはない。
type Favorite struct {
	ID       int64
	UserID   int64
	Kind     FavoriteKind
	TargetID int64
}

// NewFavorite はユーザーと対象から未保存のFavoriteを生成する。
func NewFavorite(userID int64, kind FavoriteKind, targetID int64) (*Favorite, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown favorite kind: %q", kind)
	}
	return &Favorite{UserID: userID, Kind: kind, TargetID: targetID}, nil
}

// PersonID は人物へのお気に入りの場合に対象IDを返す。それ以外はnil。
func (f *Favorite) PersonID() *int64 {
	if f.Kind != FavoriteKindPerson {
		return nil
	}
	id := f.TargetID
	return &id
}

// PlanetID は惑星へのお気に入りの場合に対象IDを返す。それ以外はnil。
func (f *Favorite) PlanetID() *int64 {
	if f.Kind != FavoriteKindPlanet {
		return nil
	}
	id := f.TargetID
	return &id
}

// FavoriteFromColumns はperson_id/planet_idの2カラム表現からFavoriteを復元する。
// どちらか一方だけが設定されていない行はエラーとする。
func FavoriteFromColumns(id, userID int64, personID, planetID *int64) (*Favorite, error) {
	switch {
	case personID != nil && planetID == nil:
		return &Favorite{ID: id, UserID: userID, Kind: FavoriteKindPerson, TargetID: *personID}, nil
	case planetID != nil && personID == nil:
		return &Favorite{ID: id, UserID: userID, Kind: FavoriteKindPlanet, TargetID: *planetID}, nil
	default:
		return nil, fmt.Errorf("favorite %d must reference exactly one of person or planet", id)
	}
}
