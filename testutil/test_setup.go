// Package testutil はハンドラー・リポジトリのテストで共通に使うヘルパーを提供します。
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"task-manager/internal/config"
	"task-manager/internal/database"
	"task-manager/internal/models"
	"task-manager/internal/repositories"
	"task-manager/internal/routes"
)

var dbSeq atomic.Int64

// TestConfig はテスト用の設定を返します。DB はテストごとに別のインメモリ SQLite です。
func TestConfig() *config.Config {
	n := dbSeq.Add(1)
	return &config.Config{
		Env:      "test",
		Port:     "0",
		LogLevel: "debug",
		DB: config.DBConfig{
			Driver:   config.DriverSQLite,
			DSN:      fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_foreign_keys=1", n),
			LogLevel: "silent",
		},
	}
}

// NewTestDB はマイグレーション済みの空のデータベースを開き、テスト終了時に閉じます。
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDB(t, TestConfig())
}

func openTestDB(t *testing.T, cfg *config.Config) *gorm.DB {
	t.Helper()
	db, err := database.Open(cfg.DB, zaptest.NewLogger(t))
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// SetupTestDB はテスト用のデータベースとルーターを用意します。
// データベースはテストごとに独立しているので、ID は常に 1 から採番されます。
func SetupTestDB(t *testing.T) (*gorm.DB, *gin.Engine, *repositories.TaskRepository, *repositories.UserRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := TestConfig()
	db := openTestDB(t, cfg)
	router := routes.SetupRouter(db, cfg, zaptest.NewLogger(t))

	return db, router, repositories.NewTaskRepository(db), repositories.NewUserRepository(db)
}

// DoJSON はルーターにリクエストを送り、レスポンスを返します。
// body が string の場合はそのまま送信し、それ以外は JSON にエンコードします。
func DoJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// DecodeJSON はレスポンスボディを v にデコードします。
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "response should be valid JSON: %s", w.Body.String())
}

// CreateTestUser は API 経由でユーザーを作成します。
func CreateTestUser(t *testing.T, router *gin.Engine, email, name string) *models.User {
	t.Helper()
	w := DoJSON(t, router, http.MethodPost, "/api/users", map[string]any{"email": email, "name": name})
	require.Equal(t, http.StatusCreated, w.Code, "ユーザー作成に失敗しました: %s", w.Body.String())

	var u models.User
	DecodeJSON(t, w, &u)
	require.NotZero(t, u.ID)
	return &u
}

// CreateTestTask は API 経由でタスクを作成します。
func CreateTestTask(t *testing.T, router *gin.Engine, title string, userID int) *models.Task {
	t.Helper()
	w := DoJSON(t, router, http.MethodPost, "/api/tasks", map[string]any{"title": title, "userId": userID})
	require.Equal(t, http.StatusCreated, w.Code, "タスク作成に失敗しました: %s", w.Body.String())

	var task models.Task
	DecodeJSON(t, w, &task)
	require.NotZero(t, task.ID)
	return &task
}

// ErrorBody はエラーレスポンスの形です。
type ErrorBody struct {
	Error   string `json:"error"`
	Details *struct {
		FormErrors  []string            `json:"formErrors"`
		FieldErrors map[string][]string `json:"fieldErrors"`
	} `json:"details"`
}
