package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-manager/internal/models"
)

// UserRepository はユーザーテーブルに対する操作を行うための構造体です。
type UserRepository struct {
	DB *gorm.DB
}

// NewUserRepository は新しいUserRepositoryインスタンスを作成します。
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// FindAll はすべてのユーザーを ID の昇順で取得します。
func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("could not query users: %w", err)
	}
	return users, nil
}

// Create は新しいユーザーを挿入します。email の重複は ErrDuplicateEmail になります。
func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if classify(err) == constraintUnique {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("could not insert user: %w", err)
	}
	return u, nil
}

// CreateIgnoringDuplicates は既に存在する email をスキップしつつユーザーをまとめて挿入し、
// 実際に挿入された件数を返します。
func (r *UserRepository) CreateIgnoringDuplicates(ctx context.Context, users []models.User) (int64, error) {
	if len(users) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&users)
	if res.Error != nil {
		return 0, fmt.Errorf("could not insert users: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// FindByID は指定 ID のユーザーを取得します。存在しない場合は ErrUserNotFound を返します。
func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	return &u, nil
}

// Update は fields に含まれる列だけを更新し、更新後のユーザーを返します。
// ID が存在しない場合は ErrUserNotFound、email の重複は ErrDuplicateEmail になります。
func (r *UserRepository) Update(ctx context.Context, id int, fields map[string]any) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&u).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&u, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		if classify(err) == constraintUnique {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("could not update user: %w", err)
	}
	return &u, nil
}

// Delete は指定 ID のユーザーを削除します。
// タスクを所有している場合は ErrUserHasTasks、存在しない場合は ErrUserNotFound を返します。
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	res := r.DB.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		if classify(res.Error) == constraintForeignKey {
			return ErrUserHasTasks
		}
		return fmt.Errorf("could not delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Count はユーザーの総数を返します。
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("could not count users: %w", err)
	}
	return n, nil
}
