// Package routes はルーティングを行います。
package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-manager/internal/config"
	"task-manager/internal/database"
	"task-manager/internal/handlers"
	"task-manager/internal/repositories"
	"task-manager/internal/services"
	"task-manager/internal/web"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(db *gorm.DB, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(logger), Recovery(logger))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	// リポジトリ
	userRepo := repositories.NewUserRepository(db)
	taskRepo := repositories.NewTaskRepository(db)

	// サービス
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo)

	// ハンドラー
	userHandler := handlers.NewUserHandler(userService, logger)
	taskHandler := handlers.NewTaskHandler(taskService, logger)

	// ルーティング
	r.GET("/health", HealthHandler)
	r.GET("/health/db", func(c *gin.Context) { dbCheckHandler(c, db, logger) })

	api := r.Group("/api")
	api.Use(RequireJSON())
	{
		api.GET("/users", userHandler.GetUsersHandler)
		api.POST("/users", userHandler.CreateUserHandler)
		api.GET("/users/:id", userHandler.GetUserByIDHandler)
		api.PUT("/users/:id", userHandler.UpdateUserHandler)
		api.DELETE("/users/:id", userHandler.DeleteUserHandler)
		api.GET("/users/:id/tasks", taskHandler.GetTasksByUserHandler)

		api.GET("/tasks", taskHandler.GetTasksHandler)
		api.POST("/tasks", taskHandler.CreateTaskHandler)
		api.GET("/tasks/:id", taskHandler.GetTaskByIDHandler)
		api.PUT("/tasks/:id", taskHandler.UpdateTaskHandler)
		api.DELETE("/tasks/:id", taskHandler.DeleteTaskHandler)
	}

	if cfg.ServeClient {
		web.Register(r)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r
}

// corsConfig は許可オリジンが空の場合すべてのオリジンを許可します。
func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	config.MaxAge = 12 * time.Hour
	return config
}

// HealthHandler はプロセスの死活確認用エンドポイントです。
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// dbCheckHandler はデータベース接続の健全性を確認します。
func dbCheckHandler(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, db); err != nil {
		logger.Warn("DB ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Database connection failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Database connection is healthy"})
}
