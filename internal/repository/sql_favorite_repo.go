package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/holocron/internal/database"
	"github.com/hitoshi/holocron/internal/model"
)

// SQLFavoriteRepo はdatabase/sqlを使用したお気に入りリポジトリ。
// model.Favoriteの対象種別は person_id / planet_id のどちらか一方のカラムに保存する。
type SQLFavoriteRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSQLFavoriteRepo はSQLFavoriteRepoを生成する。
func NewSQLFavoriteRepo(db *sql.DB, dialect database.Dialect) *SQLFavoriteRepo {
	return &SQLFavoriteRepo{db: db, dialect: dialect}
}

// targetColumn は対象種別に対応するカラム名を返す。
func targetColumn(kind model.FavoriteKind) (string, error) {
	switch kind {
	case model.FavoriteKindPerson:
		return "person_id", nil
	case model.FavoriteKindPlanet:
		return "planet_id", nil
	default:
		return "", fmt.Errorf("unknown favorite kind: %q", kind)
	}
}

// ListByUserID はユーザーのお気に入りをID昇順で返す。
func (r *SQLFavoriteRepo) ListByUserID(ctx context.Context, userID int64) ([]*model.Favorite, error) {
	rows, err := r.db.QueryContext(ctx,
		r.dialect.Rebind(`SELECT id, user_id, person_id, planet_id FROM favorites WHERE user_id = ? ORDER BY id`),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []*model.Favorite{}
	for rows.Next() {
		var id, uid int64
		var personID, planetID sql.NullInt64
		if err := rows.Scan(&id, &uid, &personID, &planetID); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}

		fav, err := model.FavoriteFromColumns(id, uid, nullInt64(personID), nullInt64(planetID))
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorites: %w", err)
	}

	return favorites, nil
}

// Create はお気に入りを作成し、採番されたIDをfavorite.IDに設定する。
func (r *SQLFavoriteRepo) Create(ctx context.Context, favorite *model.Favorite) error {
	err := r.db.QueryRowContext(ctx,
		r.dialect.Rebind(`INSERT INTO favorites (user_id, person_id, planet_id) VALUES (?, ?, ?) RETURNING id`),
		favorite.UserID, nullable(favorite.PersonID()), nullable(favorite.PlanetID()),
	).Scan(&favorite.ID)
	if err != nil {
		return fmt.Errorf("failed to insert favorite: %w", classifyError(err))
	}

	return nil
}

// DeleteFirst はユーザーと対象に一致する最も古いお気に入りを1件だけ削除する。
// 検索と削除を1文で行うため、アプリケーション側のトランザクションは不要。
func (r *SQLFavoriteRepo) DeleteFirst(ctx context.Context, userID int64, kind model.FavoriteKind, targetID int64) (bool, error) {
	column, err := targetColumn(kind)
	if err != nil {
		return false, err
	}

	result, err := r.db.ExecContext(ctx,
		r.dialect.Rebind(`DELETE FROM favorites WHERE id = (
			SELECT id FROM favorites WHERE user_id = ? AND `+column+` = ? ORDER BY id LIMIT 1
		)`),
		userID, targetID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete favorite: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ FavoriteRepository = (*SQLFavoriteRepo)(nil)
