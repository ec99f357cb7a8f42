package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"task-manager/internal/models"
)

// TaskRepository はタスクテーブルに対する操作を行うための構造体です。
type TaskRepository struct {
	DB *gorm.DB
}

// NewTaskRepository は新しいTaskRepositoryインスタンスを作成します。
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

// FindAll はすべてのタスクを ID の昇順で取得します。
func (r *TaskRepository) FindAll(ctx context.Context) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	return tasks, nil
}

// FindByUserID は指定ユーザーのタスクを ID の昇順で取得します。該当がなければ空スライスです。
func (r *TaskRepository) FindByUserID(ctx context.Context, userID int) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("could not query tasks for user %d: %w", userID, err)
	}
	return tasks, nil
}

// Create は新しいタスクを挿入します。userId が存在しない場合は ErrUnknownUser になります。
func (r *TaskRepository) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	if err := r.DB.WithContext(ctx).Create(t).Error; err != nil {
		if classify(err) == constraintForeignKey {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("could not insert task: %w", err)
	}
	return t, nil
}

// FindByID は指定 ID のタスクを取得します。存在しない場合は ErrTaskNotFound を返します。
func (r *TaskRepository) FindByID(ctx context.Context, id int) (*models.Task, error) {
	var t models.Task
	if err := r.DB.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("could not query task: %w", err)
	}
	return &t, nil
}

// Update は fields に含まれる列だけを更新し、更新後のタスクを返します。
func (r *TaskRepository) Update(ctx context.Context, id int, fields map[string]any) (*models.Task, error) {
	var t models.Task
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&t).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&t, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		if classify(err) == constraintForeignKey {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("could not update task: %w", err)
	}
	return &t, nil
}

// Delete は指定 ID のタスクを削除します。存在しない場合は ErrTaskNotFound を返します。
func (r *TaskRepository) Delete(ctx context.Context, id int) error {
	res := r.DB.WithContext(ctx).Delete(&models.Task{}, id)
	if res.Error != nil {
		return fmt.Errorf("could not delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
