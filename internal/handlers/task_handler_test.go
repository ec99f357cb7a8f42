package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/models"
	"task-manager/testutil"
)

func TestCreateTask_Success(t *testing.T) {
	_, r, _, _ := testutil.SetupTestDB(t)
	u := testutil.CreateTestUser(t, r, "a@x.com", "A")

	w := testutil.DoJSON(t, r, http.MethodPost, "/api/tasks", map[string]any{
		"title":       "Write report",
		"description": "quarterly",
		"userId":      u.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var task models.Task
	testutil.DecodeJSON(t, w, &task)
	assert.Equal(t, 1, task.ID)
	assert.Equal(t, "Write report", task.Title)
	require.NotNil(t, task.Description)
	assert.Equal(t, "quarterly", *task.Description)
	assert.False(t, task.IsDone, "new tasks start open")
	assert.Equal(t, u.ID, task.UserID)
	assert.NotZero(t, task.CreatedAt)
}

func TestCreateTask_IgnoresClientIsDone(t *testing.T) {
	_, r, _, _ := testutil.SetupTestDB(t)
	testutil.CreateTestUser(t, r, "a@x.com", "A")

	w := testutil.DoJSON(t, r, http.MethodPost, "/api/tasks", map[string]any{"title": "T", "userId": 1, "isDone": true})
	require.Equal(t, http.StatusCreated, w.Code)

	var task models.Task
	testutil.DecodeJSON(t, w, &task)
	assert.False(t, task.IsDone)
	assert.Nil(t, task.Description)
}

func TestCreateTask_UserIDAsString(t *testing.T) {
	_, r, _, _ := testutil.SetupTestDB(t)
	testutil.CreateTestUser(t, r, "a@x.com", "A")

	w := testutil.DoJSON(t, r, http.MethodPost, "/api/tasks", `{"title":"T","userId":"1"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var task models.Task
	testutil.DecodeJSON(t, w, &task)
	assert.Equal(t, 1, task.UserID)
}

func TestCreateTask_UserIDAsBoolean(t *testing.T) {
	_, r, _, _ := testutil.SetupTestDB(t)
	testutil.CreateTestUser(t, r, "a@x.com", "A")

	w := testutil.DoJSON(t, r, http.MethodPost, "/api/tasks", `{"title":"T","userId":true}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var task models.Task
	testutil.DecodeJSON(t, w, &task)
	assert.Equal(t, 1, task.UserID)

	w = testutil.DoJSON(t, r, http.MethodPost, "/api/tasks", `{"title":"T","userId":false}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body testutil.ErrorBody
	testutil.DecodeJSON(t, w, &body)
	require.NotNil(t, body.Details)
	assert.Equal(t, []string{"must be a positive integer"}, body.Details.FieldErrors["userId"])
}

func TestCreateTask_UnknownUser(t *testing.T) {
	_, r, taskRepo, _ := testutil.SetupTestDB(t)

	w := testutil.DoJSON(t, r, http.MethodPost, "/api/tasks", map[string]any{"title": "T", "userId": 99})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"could not create task (check userId)"}`, w.Body.String())

	tasks, err := taskRepo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks, "no row may be created for an unknown owner")
}

func TestCreateTask_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{name: "missing title", body: `{"userId": 1}`, field: "title", msg: "is required"},
		{name: "empty title", body: `{"title": "", "userId": 1}`, field: "title", msg: "is required"},
		{name: "missing userId", body: `{"title": "T"}`, field: "userId", msg: "is required"},
		{name: "non numeric userId", body: `{"title": "T", "userId": "abc"}`, field: "userId", msg: "must be a number"},
		{name: "fractional userId", body: `{"title": "T", "userId": 1.5}`, field: "userId", msg: "must be an integer"},
		{name: "zero userId", body: `{"title": "T", "userId": 0}`, field: "userId", msg: "must be a positive integer"},
		{name: "negative userId", body: `{"title": "T", "userId": -3}`, field: "userId", msg: "must be a positive integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, r, taskRepo, _ := testutil.SetupTestDB(t)
			testutil.CreateTestUser(t, r, "a@x.com", "A")

			w := testutil.DoJSON(t, r, http.MethodPost, "/api/tasks", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			var body testutil.ErrorBody
			testutil.DecodeJSON(t, w, &body)
			assert.Equal(t, "validation failed", body.Error)
			require.NotNil(t, body.Details)
			assert.Contains(t, body.Details.FieldErrors[tt.field], tt.msg)

			tasks, err := taskRepo.FindAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, tasks)
		})
	}
}

func TestGetTasks_OrderedByID(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	testutil.CreateTestUser(t, r, "a@x.com", "A")

	// 挿入順と ID 順をずらす
	for _, id := range []int{3, 1, 2} {
		require.NoError(t, db.Create(&models.Task{ID: id, Title: "t", UserID: 1}).Error)
	}

	w := testutil.DoJSON(t, r, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tasks []models.Task
	testutil.DecodeJSON(t, w, &tasks)
	require.Len(t, tasks, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}

func TestGetTasks_Empty(t *testing.T) {
	_, r, _, _ := testutil.SetupTestDB(t)

	w := testutil.DoJSON(t, r, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetTaskByID(t *testing.T) {
	_, r, _, _ := testutil.SetupTestDB(t)
	u := testutil.CreateTestUser(t, r, "a@x.com", "A")
	created := testutil.CreateTestTask(t, r, "T", u.ID)

	w := testutil.DoJSON(t, r, http.MethodGet, "/api/tasks/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var task models.Task
	testutil.DecodeJSON(t, w, &task)
	assert.Equal(t, created.ID, task.ID)
	assert.Equal(t, "T", task.Title)

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/tasks/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/tasks/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"id must be a number"}`, w.Body.String())
}

func TestUpdateTask_ToggleDone(t *testing.T) {
	_, r, _, _ := testutil.SetupTestDB(t)
	u := testutil.CreateTestUser(t, r, "a@x.com", "A")
	testutil.CreateTestTask(t, r, "T", u.ID)

	for _, want := range []bool{true, false} {
		w := testutil.DoJSON(t, r, http.MethodPut, "/api/tasks/1", map[string]any{"isDone": want})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var task models.Task
		testutil.DecodeJSON(t, w, &task)
		assert.Equal(t, want, task.IsDone)
		assert.Equal(t, "T", task.Title, "untouched fields are kept")
	}
}

func TestUpdateTask_TitleAndDescription(t *testing.T) {
	_, r, _, _ := testutil.SetupTestDB(t)
	u := testutil.CreateTestUser(t, r, "a@x.com", "A")
	testutil.CreateTestTask(t, r, "T", u.ID)

	w := testutil.DoJSON(t, r, http.MethodPut, "/api/tasks/1", map[string]any{"title": "Renamed", "description": "details"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var task models.Task
	testutil.DecodeJSON(t, w, &task)
	assert.Equal(t, "Renamed", task.Title)
	require.NotNil(t, task.Description)
	assert.Equal(t, "details", *task.Description)
	assert.False(t, task.IsDone)
}

func TestUpdateTask_EmptyBodyLeavesTaskUnchanged(t *testing.T) {
	_, r, taskRepo, _ := testutil.SetupTestDB(t)
	u := testutil.CreateTestUser(t, r, "a@x.com", "A")
	before := testutil.CreateTestTask(t, r, "T", u.ID)

	w := testutil.DoJSON(t, r, http.MethodPut, "/api/tasks/1", map[string]any{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body testutil.ErrorBody
	testutil.DecodeJSON(t, w, &body)
	require.NotNil(t, body.Details)
	assert.Equal(t, []string{"send at least one field"}, body.Details.FormErrors)

	after, err := taskRepo.FindByID(context.Background(), before.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Title, after.Title)
	assert.Equal(t, before.IsDone, after.IsDone)
}

func TestUpdateTask_Invalid(t *testing.T) {
	_, r, _, _ := testutil.SetupTestDB(t)
	u := testutil.CreateTestUser(t, r, "a@x.com", "A")
	testutil.CreateTestTask(t, r, "T", u.ID)

	t.Run("wrong type", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPut, "/api/tasks/1", `{"isDone": "yes"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		var body testutil.ErrorBody
		testutil.DecodeJSON(t, w, &body)
		require.NotNil(t, body.Details)
		assert.Equal(t, []string{"expected boolean, received string"}, body.Details.FieldErrors["isDone"])
	})

	t.Run("empty title", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPut, "/api/tasks/1", map[string]any{"title": ""})
		require.Equal(t, http.StatusBadRequest, w.Code)
		var body testutil.ErrorBody
		testutil.DecodeJSON(t, w, &body)
		require.NotNil(t, body.Details)
		assert.Equal(t, []string{"must not be empty"}, body.Details.FieldErrors["title"])
	})

	t.Run("missing task", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPut, "/api/tasks/99", map[string]any{"isDone": true})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := testutil.DoJSON(t, r, http.MethodPut, "/api/tasks/abc", map[string]any{"isDone": true})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteTask(t *testing.T) {
	_, r, _, _ := testutil.SetupTestDB(t)
	u := testutil.CreateTestUser(t, r, "a@x.com", "A")
	testutil.CreateTestTask(t, r, "T", u.ID)

	w := testutil.DoJSON(t, r, http.MethodDelete, "/api/tasks/1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = testutil.DoJSON(t, r, http.MethodDelete, "/api/tasks/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "deleting twice reports not found")

	w = testutil.DoJSON(t, r, http.MethodDelete, "/api/tasks/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// タスクが無くなったのでユーザーも削除できる
	w = testutil.DoJSON(t, r, http.MethodDelete, "/api/users/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTaskLifecycle(t *testing.T) {
	_, r, _, _ := testutil.SetupTestDB(t)

	w := testutil.DoJSON(t, r, http.MethodPost, "/api/users", map[string]any{"email": "a@x.com", "name": "A"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":1`)

	w = testutil.DoJSON(t, r, http.MethodPost, "/api/tasks", map[string]any{"title": "T", "userId": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	var task models.Task
	testutil.DecodeJSON(t, w, &task)
	assert.Equal(t, 1, task.ID)
	assert.Equal(t, "T", task.Title)
	assert.False(t, task.IsDone)
	assert.Equal(t, 1, task.UserID)

	w = testutil.DoJSON(t, r, http.MethodPut, "/api/tasks/1", map[string]any{"isDone": true})
	require.Equal(t, http.StatusOK, w.Code)
	testutil.DecodeJSON(t, w, &task)
	assert.True(t, task.IsDone)

	w = testutil.DoJSON(t, r, http.MethodDelete, "/api/tasks/1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/tasks/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
