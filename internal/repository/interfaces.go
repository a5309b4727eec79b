// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/holocron/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// List は全ユーザーをID昇順で返す。
	List(ctx context.Context) ([]*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// Create はユーザーを作成し、採番されたIDをuser.IDに設定する。
	// メールアドレスが重複する場合はErrDuplicateをラップしたエラーを返す。
	Create(ctx context.Context, user *model.User) error
}

// PersonRepository は人物データの永続化インターフェース。
type PersonRepository interface {
	// List は全人物をID昇順で返す。
	List(ctx context.Context) ([]*model.Person, error)

	// FindByID は指定IDの人物を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Person, error)

	// Create は人物を作成し、採番されたIDをperson.IDに設定する。
	Create(ctx context.Context, person *model.Person) error
}

// PlanetRepository は惑星データの永続化インターフェース。
type PlanetRepository interface {
	// List は全惑星をID昇順で返す。
	List(ctx context.Context) ([]*model.Planet, error)

	// FindByID は指定IDの惑星を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Planet, error)

	// Create は惑星を作成し、採番されたIDをplanet.IDに設定する。
	Create(ctx context.Context, planet *model.Planet) error
}

// FavoriteRepository はお気に入りデータの永続化インターフェース。
type FavoriteRepository interface {
	// ListByUserID はユーザーのお気に入りをID昇順で返す。
	ListByUserID(ctx context.Context, userID int64) ([]*model.Favorite, error)

	// Create はお気に入りを作成し、採番されたIDをfavorite.IDに設定する。
	// user_idの参照先が存在しない場合（外部キーを強制する方言のみ）はErrForeignKeyをラップしたエラーを返す。
	Create(ctx context.Context, favorite *model.Favorite) error

	// DeleteFirst はユーザーと対象に一致する最も古いお気に入りを1件だけ削除する。
	// 削除した場合はtrue、一致する行がない場合はfalseを返す。
	DeleteFirst(ctx context.Context, userID int64, kind model.FavoriteKind, targetID int64) (bool, error)
}
