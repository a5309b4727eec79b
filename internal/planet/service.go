// Package planet は惑星リソースのドメインロジックを提供する。
package planet

import (
	"context"
	"fmt"

	"github.com/hitoshi/holocron/internal/model"
	"github.com/hitoshi/holocron/internal/repository"
)

// Service は惑星リソースのサービス層。
type Service struct {
	repo repository.PlanetRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.PlanetRepository) *Service {
	return &Service{repo: repo}
}

// List は全惑星をID昇順で返す。
func (s *Service) List(ctx context.Context) ([]*model.Planet, error) {
	planets, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("惑星一覧の取得に失敗しました: %w", err)
	}
	return planets, nil
}

// Get は指定IDの惑星を返す。存在しない場合はPLANET_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, id int64) (*model.Planet, error) {
	planet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("惑星の取得に失敗しました: %w", err)
	}
	if planet == nil {
		return nil, model.NewPlanetNotFoundError()
	}
	return planet, nil
}

// Create は惑星を登録し、採番後のレコードを返す。
func (s *Service) Create(ctx context.Context, planet *model.Planet) (*model.Planet, error) {
	if err := s.repo.Create(ctx, planet); err != nil {
		return nil, fmt.Errorf("惑星の登録に失敗しました: %w", err)
	}
	return planet, nil
}
