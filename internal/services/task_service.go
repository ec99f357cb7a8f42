package services

import (
	"context"

	"task-manager/internal/models"
	"task-manager/internal/repositories"
)

// TaskService はタスク関連のビジネスロジックを扱います。
type TaskService struct {
	taskRepo *repositories.TaskRepository
}

// NewTaskService は新しいTaskServiceを作成します。
func NewTaskService(taskRepo *repositories.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// ListTasks はすべてのタスクを ID 順で取得します。
func (s *TaskService) ListTasks(ctx context.Context) ([]models.Task, error) {
	return s.taskRepo.FindAll(ctx)
}

// ListTasksByUser は指定ユーザーのタスクを取得します。ユーザーが存在しなくてもエラーにはしません。
func (s *TaskService) ListTasksByUser(ctx context.Context, userID int) ([]models.Task, error) {
	return s.taskRepo.FindByUserID(ctx, userID)
}

// CreateTask は新しいタスクを作成します。作成時は常に未完了です。
func (s *TaskService) CreateTask(ctx context.Context, req models.TaskCreateRequest) (*models.Task, error) {
	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		IsDone:      false,
		UserID:      req.UserID.Int(),
	}
	return s.taskRepo.Create(ctx, task)
}

// GetTask は指定IDのタスクを取得します。
func (s *TaskService) GetTask(ctx context.Context, id int) (*models.Task, error) {
	return s.taskRepo.FindByID(ctx, id)
}

// UpdateTask はリクエストに含まれるフィールドだけを更新します。
func (s *TaskService) UpdateTask(ctx context.Context, id int, req models.TaskUpdateRequest) (*models.Task, error) {
	return s.taskRepo.Update(ctx, id, TaskUpdateFields(req))
}

// DeleteTask はタスクを削除します。
func (s *TaskService) DeleteTask(ctx context.Context, id int) error {
	return s.taskRepo.Delete(ctx, id)
}

// TaskUpdateFields は部分更新リクエストを更新対象の列マップに変換します。
func TaskUpdateFields(req models.TaskUpdateRequest) map[string]any {
	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.IsDone != nil {
		fields["is_done"] = *req.IsDone
	}
	return fields
}
