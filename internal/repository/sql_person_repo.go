package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/holocron/internal/database"
	"github.com/hitoshi/holocron/internal/model"
)

const personColumns = `id, name, gender, eye_color, birth_year, height, skin_color`

// SQLPersonRepo はdatabase/sqlを使用した人物リポジトリ。
type SQLPersonRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSQLPersonRepo はSQLPersonRepoを生成する。
func NewSQLPersonRepo(db *sql.DB, dialect database.Dialect) *SQLPersonRepo {
	return &SQLPersonRepo{db: db, dialect: dialect}
}

func scanPerson(s rowScanner) (*model.Person, error) {
	person := &model.Person{}
	var gender, eyeColor, birthYear, height, skinColor sql.NullString

	if err := s.Scan(&person.ID, &person.Name, &gender, &eyeColor, &birthYear, &height, &skinColor); err != nil {
		return nil, err
	}

	person.Gender = nullString(gender)
	person.EyeColor = nullString(eyeColor)
	person.BirthYear = nullString(birthYear)
	person.Height = nullString(height)
	person.SkinColor = nullString(skinColor)

	return person, nil
}

// List は全人物をID昇順で返す。
func (r *SQLPersonRepo) List(ctx context.Context) ([]*model.Person, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+personColumns+` FROM people ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	people := []*model.Person{}
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}

	return people, nil
}

// FindByID は指定IDの人物を取得する。見つからない場合はnilを返す。
func (r *SQLPersonRepo) FindByID(ctx context.Context, id int64) (*model.Person, error) {
	person, err := scanPerson(r.db.QueryRowContext(ctx,
		r.dialect.Rebind(`SELECT `+personColumns+` FROM people WHERE id = ?`),
		id,
	))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find person by ID: %w", err)
	}

	return person, nil
}

// Create は人物を作成し、採番されたIDをperson.IDに設定する。
func (r *SQLPersonRepo) Create(ctx context.Context, person *model.Person) error {
	err := r.db.QueryRowContext(ctx,
		r.dialect.Rebind(`INSERT INTO people (name, gender, eye_color, birth_year, height, skin_color)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		person.Name, nullable(person.Gender), nullable(person.EyeColor), nullable(person.BirthYear),
		nullable(person.Height), nullable(person.SkinColor),
	).Scan(&person.ID)
	if err != nil {
		return fmt.Errorf("failed to insert person: %w", classifyError(err))
	}

	return nil
}

// compile-time interface check
var _ PersonRepository = (*SQLPersonRepo)(nil)
