// Package handlers は HTTP リクエストを処理する gin ハンドラーを提供します。
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"task-manager/internal/validation"
)

// エラーレスポンスのメッセージ
const (
	msgInvalidID   = "id must be a number"
	msgNotFound    = "not found"
	msgServerError = "server error"
)

// parseID はパスの :id を整数として取り出します。失敗した場合は 400 を返し false になります。
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidID})
		return 0, false
	}
	return id, true
}

// bindJSON はリクエストボディをデコードし、スキーマ検証まで行います。
// 失敗した場合は構造化されたバリデーションエラーを返し false になります。
func bindJSON[T any](c *gin.Context, req *T, validate func(*T) error) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondValidation(c, validation.FromDecodeError(err))
		return false
	}
	if err := validate(req); err != nil {
		respondValidation(c, err)
		return false
	}
	return true
}

func respondValidation(c *gin.Context, err error) {
	var report *validation.Report
	if !errors.As(err, &report) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": report})
}

// respondServerError は想定外のエラーをログに残し、呼び出し元には汎用メッセージだけを返します。
func respondServerError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	logger.Error(msg,
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
}
