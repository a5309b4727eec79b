package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/holocron/internal/database"
	"github.com/hitoshi/holocron/internal/model"
)

// SQLPlanetRepo はdatabase/sqlを使用した惑星リポジトリ。
type SQLPlanetRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSQLPlanetRepo はSQLPlanetRepoを生成する。
func NewSQLPlanetRepo(db *sql.DB, dialect database.Dialect) *SQLPlanetRepo {
	return &SQLPlanetRepo{db: db, dialect: dialect}
}

func scanPlanet(s rowScanner) (*model.Planet, error) {
	planet := &model.Planet{}
	var population, terrain sql.NullString

	if err := s.Scan(&planet.ID, &planet.Name, &population, &terrain); err != nil {
		return nil, err
	}

	planet.Population = nullString(population)
	planet.Terrain = nullString(terrain)

	return planet, nil
}

// List は全惑星をID昇順で返す。
func (r *SQLPlanetRepo) List(ctx context.Context) ([]*model.Planet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, population, terrain FROM planets ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list planets: %w", err)
	}
	defer rows.Close()

	planets := []*model.Planet{}
	for rows.Next() {
		planet, err := scanPlanet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan planet: %w", err)
		}
		planets = append(planets, planet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate planets: %w", err)
	}

	return planets, nil
}

// FindByID は指定IDの惑星を取得する。見つからない場合はnilを返す。
func (r *SQLPlanetRepo) FindByID(ctx context.Context, id int64) (*model.Planet, error) {
	planet, err := scanPlanet(r.db.QueryRowContext(ctx,
		r.dialect.Rebind(`SELECT id, name, population, terrain FROM planets WHERE id = ?`),
		id,
	))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find planet by ID: %w", err)
	}

	return planet, nil
}

// Create は惑星を作成し、採番されたIDをplanet.IDに設定する。
func (r *SQLPlanetRepo) Create(ctx context.Context, planet *model.Planet) error {
	err := r.db.QueryRowContext(ctx,
		r.dialect.Rebind(`INSERT INTO planets (name, population, terrain) VALUES (?, ?, ?) RETURNING id`),
		planet.Name, nullable(planet.Population), nullable(planet.Terrain),
	).Scan(&planet.ID)
	if err != nil {
		return fmt.Errorf("failed to insert planet: %w", classifyError(err))
	}

	return nil
}

// compile-time interface check
var _ PlanetRepository = (*SQLPlanetRepo)(nil)
