// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/holocron/internal/model"
	"github.com/hitoshi/holocron/internal/repository"
)

// ServiceConfig はユーザーサービスの設定を保持する。
type ServiceConfig struct {
	// BcryptCost はパスワードハッシュのコスト。0の場合はbcrypt.DefaultCostを使う。
	BcryptCost int
}

// CreateInput はユーザー登録の入力を表す。Passwordは平文で受け取り、保存前にハッシュ化する。
type CreateInput struct {
	Email    string
	Password string
	IsActive bool
}

// Service はユーザー管理のサービス層。
type Service struct {
	repo repository.UserRepository
	cost int
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.UserRepository, cfg ServiceConfig) *Service {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, cost: cost}
}

// List は全ユーザーをID昇順で返す。
func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}
	return users, nil
}

// Get は指定IDのユーザーを返す。存在しない場合はUSER_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// Create はパスワードをbcryptでハッシュ化してユーザーを登録する。
// メールアドレスが登録済みの場合はEMAIL_TAKENを返す。
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, model.NewInvalidFieldError("password")
	}
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	user := &model.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		IsActive:     in.IsActive,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, model.NewEmailTakenError()
		}
		return nil, fmt.Errorf("ユーザーの登録に失敗しました: %w", err)
	}

	slog.Info("user created", slog.Int64("user_id", user.ID))

	return user, nil
}
