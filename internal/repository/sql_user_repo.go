package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/holocron/internal/database"
	"github.com/hitoshi/holocron/internal/model"
)

// SQLUserRepo はdatabase/sqlを使用したユーザーリポジトリ。
type SQLUserRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSQLUserRepo はSQLUserRepoを生成する。
func NewSQLUserRepo(db *sql.DB, dialect database.Dialect) *SQLUserRepo {
	return &SQLUserRepo{db: db, dialect: dialect}
}

// List は全ユーザーをID昇順で返す。
func (r *SQLUserRepo) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, password, is_active FROM users ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user := &model.User{}
		if err := rows.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *SQLUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		r.dialect.Rebind(`SELECT id, email, password, is_active FROM users WHERE id = ?`),
		id,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.IsActive)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// Create はユーザーを作成し、採番されたIDをuser.IDに設定する。
func (r *SQLUserRepo) Create(ctx context.Context, user *model.User) error {
	err := r.db.QueryRowContext(ctx,
		r.dialect.Rebind(`INSERT INTO users (email, password, is_active) VALUES (?, ?, ?) RETURNING id`),
		user.Email, user.PasswordHash, user.IsActive,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", classifyError(err))
	}

	return nil
}

// compile-time interface check
var _ UserRepository = (*SQLUserRepo)(nil)
