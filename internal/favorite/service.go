// Package favorite はお気に入り管理のドメインロジックを提供する。
// すべての操作は呼び出し元が解決したユーザーIDを明示的に受け取る。
package favorite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hitoshi/holocron/internal/model"
	"github.com/hitoshi/holocron/internal/repository"
)

// PersonFinder は人物の存在確認に必要なインターフェース。
type PersonFinder interface {
	FindByID(ctx context.Context, id int64) (*model.Person, error)
}

// PlanetFinder は惑星の存在確認に必要なインターフェース。
type PlanetFinder interface {
	FindByID(ctx context.Context, id int64) (*model.Planet, error)
}

// Service はお気に入り管理のサービス層。
type Service struct {
	favorites repository.FavoriteRepository
	people    PersonFinder
	planets   PlanetFinder
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(favorites repository.FavoriteRepository, people PersonFinder, planets PlanetFinder) *Service {
	return &Service{
		favorites: favorites,
		people:    people,
		planets:   planets,
	}
}

// List はユーザーのお気に入りをID昇順で返す。
func (s *Service) List(ctx context.Context, userID int64) ([]*model.Favorite, error) {
	favorites, err := s.favorites.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("お気に入り一覧の取得に失敗しました: %w", err)
	}
	return favorites, nil
}

// AddPerson は人物をユーザーのお気に入りに追加する。
// 人物が存在しない場合はPERSON_NOT_FOUNDを返し、何も登録しない。
func (s *Service) AddPerson(ctx context.Context, userID, personID int64) (*model.Favorite, error) {
	person, err := s.people.FindByID(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("人物の取得に失敗しました: %w", err)
	}
	if person == nil {
		return nil, model.NewPersonNotFoundError()
	}
	return s.add(ctx, userID, model.FavoriteKindPerson, personID)
}

// AddPlanet は惑星をユーザーのお気に入りに追加する。
// 惑星が存在しない場合はPLANET_NOT_FOUNDを返し、何も登録しない。
func (s *Service) AddPlanet(ctx context.Context, userID, planetID int64) (*model.Favorite, error) {
	planet, err := s.planets.FindByID(ctx, planetID)
	if err != nil {
		return nil, fmt.Errorf("惑星の取得に失敗しました: %w", err)
	}
	if planet == nil {
		return nil, model.NewPlanetNotFoundError()
	}
	return s.add(ctx, userID, model.FavoriteKindPlanet, planetID)
}

// RemovePerson はユーザーの人物お気に入りを1件削除する。
func (s *Service) RemovePerson(ctx context.Context, userID, personID int64) error {
	return s.remove(ctx, userID, model.FavoriteKindPerson, personID)
}

// RemovePlanet はユーザーの惑星お気に入りを1件削除する。
func (s *Service) RemovePlanet(ctx context.Context, userID, planetID int64) error {
	return s.remove(ctx, userID, model.FavoriteKindPlanet, planetID)
}

func (s *Service) add(ctx context.Context, userID int64, kind model.FavoriteKind, targetID int64) (*model.Favorite, error) {
	fav, err := model.NewFavorite(userID, kind, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.favorites.Create(ctx, fav); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, model.NewUserNotFoundError()
		}
		return nil, fmt.Errorf("お気に入りの登録に失敗しました: %w", err)
	}

	slog.Info("favorite added",
		slog.Int64("user_id", userID),
		slog.String("kind", string(kind)),
		slog.Int64("target_id", targetID),
	)

	return fav, nil
}

func (s *Service) remove(ctx context.Context, userID int64, kind model.FavoriteKind, targetID int64) error {
	deleted, err := s.favorites.DeleteFirst(ctx, userID, kind, targetID)
	if err != nil {
		return fmt.Errorf("お気に入りの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewFavoriteNotFoundError(kind)
	}

	slog.Info("favorite removed",
		slog.Int64("user_id", userID),
		slog.String("kind", string(kind)),
		slog.Int64("target_id", targetID),
	)

	return nil
}
