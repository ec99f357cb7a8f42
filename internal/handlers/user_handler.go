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

// UserHandler はユーザー関連のハンドラーを管理します。
type UserHandler struct {
	userService *services.UserService
	logger      *zap.Logger
}

// NewUserHandler は新しいUserHandlerを作成します。
func NewUserHandler(userService *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// GetUsersHandler はユーザー一覧を返します。
func (h *UserHandler) GetUsersHandler(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondServerError(c, h.logger, "Failed to fetch users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUserHandler はユーザーを作成します。
func (h *UserHandler) CreateUserHandler(c *gin.Context) {
	var req models.UserCreateRequest
	if !bindJSON(c, &req, validation.UserCreate) {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not create user (email already used)"})
			return
		}
		respondServerError(c, h.logger, "Failed to create user", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetUserByIDHandler は指定IDのユーザーを返します。
func (h *UserHandler) GetUserByIDHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
			return
		}
		respondServerError(c, h.logger, "Failed to fetch user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUserHandler はユーザーを部分更新します。
// 存在しない ID と email の重複は区別せず、どちらも 400 になります。
func (h *UserHandler) UpdateUserHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req models.UserUpdateRequest
	if !bindJSON(c, &req, validation.UserUpdate) {
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) || errors.Is(err, repositories.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "update failed (duplicate email or unknown id)"})
			return
		}
		respondServerError(c, h.logger, "Failed to update user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUserHandler はユーザーを削除します。
// 存在しない場合とタスクを所有している場合はどちらも 404 になります。
func (h *UserHandler) DeleteUserHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := h.userService.DeleteUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) || errors.Is(err, repositories.ErrUserHasTasks) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
			return
		}
		respondServerError(c, h.logger, "Failed to delete user", err)
		return
	}
	c.Status(http.StatusNoContent)
}
