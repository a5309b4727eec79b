// Package people は登場人物リソースのドメインロジックを提供する。
package people

import (
	"context"
	"fmt"

	"github.com/hitoshi/holocron/internal/model"
	"github.com/hitoshi/holocron/internal/repository"
)

// Service は人物リソースのサービス層。
type Service struct {
	repo repository.PersonRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.PersonRepository) *Service {
	return &Service{repo: repo}
}

// List は全人物をID昇順で返す。
func (s *Service) List(ctx context.Context) ([]*model.Person, error) {
	people, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("人物一覧の取得に失敗しました: %w", err)
	}
	return people, nil
}

// Get は指定IDの人物を返す。存在しない場合はPERSON_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, id int64) (*model.Person, error) {
	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("人物の取得に失敗しました: %w", err)
	}
	if person == nil {
		return nil, model.NewPersonNotFoundError()
	}
	return person, nil
}

// Create は人物を登録し、採番後のレコードを返す。
func (s *Service) Create(ctx context.Context, person *model.Person) (*model.Person, error) {
	if err := s.repo.Create(ctx, person); err != nil {
		return nil, fmt.Errorf("人物の登録に失敗しました: %w", err)
	}
	return person, nil
}
