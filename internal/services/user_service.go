// Package services はハンドラーとリポジトリの間のビジネスロジックを扱います。
package services

import (
	"context"

	"task-manager/internal/models"
	"task-manager/internal/repositories"
)

// UserService はユーザー関連のビジネスロジックを扱います。
type UserService struct {
	userRepo *repositories.UserRepository
}

// NewUserService は新しいUserServiceを作成します。
func NewUserService(userRepo *repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers はすべてのユーザーを取得します。
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.FindAll(ctx)
}

// CreateUser はユーザーを作成します。一意性の判定はデータベースに任せます。
func (s *UserService) CreateUser(ctx context.Context, req models.UserCreateRequest) (*models.User, error) {
	return s.userRepo.Create(ctx, &models.User{Email: req.Email, Name: req.Name})
}

// GetUser は指定IDのユーザーを取得します。
func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// UpdateUser はリクエストに含まれるフィールドだけを更新します。
func (s *UserService) UpdateUser(ctx context.Context, id int, req models.UserUpdateRequest) (*models.User, error) {
	return s.userRepo.Update(ctx, id, UserUpdateFields(req))
}

// DeleteUser はユーザーを削除します。
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	return s.userRepo.Delete(ctx, id)
}

// UserUpdateFields は部分更新リクエストを更新対象の列マップに変換します。
func UserUpdateFields(req models.UserUpdateRequest) map[string]any {
	fields := map[string]any{}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	return fields
}
