package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"task-manager/internal/models"
	"task-manager/internal/repositories"
	"task-manager/internal/services"
	"task-manager/internal/validation"
)

// TaskHandler はタスク関連のハンドラーを管理します。
type TaskHandler struct {
	taskService *services.TaskService
	logger      *zap.Logger
}

// NewTaskHandler は新しいTaskHandlerを作成します。
func NewTaskHandler(taskService *services.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, logger: logger}
}

// GetTasksHandler はタスク一覧を ID 順で返します。
func (h *TaskHandler) GetTasksHandler(c *gin.Context) {
	tasks, err := h.taskService.ListTasks(c.Request.Context())
	if err != nil {
		respondServerError(c, h.logger, "Failed to fetch tasks", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTasksByUserHandler は指定ユーザーのタスク一覧を返します。
func (h *TaskHandler) GetTasksByUserHandler(c *gin.Context) {
	userID, ok := parseID(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasksByUser(c.Request.Context(), userID)
	if err != nil {
		respondServerError(c, h.logger, "Failed to fetch tasks for user", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// CreateTaskHandler はタスクを作成します。
func (h *TaskHandler) CreateTaskHandler(c *gin.Context) {
	var req models.TaskCreateRequest
	if !bindJSON(c, &req, validation.TaskCreate) {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repositories.ErrUnknownUser) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not create task (check userId)"})
			return
		}
		respondServerError(c, h.logger, "Failed to create task", err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// GetTaskByIDHandler は指定IDのタスクを返します。
func (h *TaskHandler) GetTaskByIDHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
			return
		}
		respondServerError(c, h.logger, "Failed to fetch task", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTaskHandler はタスクを部分更新します。
func (h *TaskHandler) UpdateTaskHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req models.TaskUpdateRequest
	if !bindJSON(c, &req, validation.TaskUpdate) {
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, repositories.ErrTaskNotFound) || errors.Is(err, repositories.ErrUnknownUser) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
			return
		}
		respondServerError(c, h.logger, "Failed to update task", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTaskHandler はタスクを削除します。
func (h *TaskHandler) DeleteTaskHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
			return
		}
		respondServerError(c, h.logger, "Failed to delete task", err)
		return
	}
	c.Status(http.StatusNoContent)
}
