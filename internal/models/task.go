package models

import "time"

// Task はタスクのデータベース構造体を表します。
type Task struct {
	ID          int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description *string   `json:"description" gorm:"type:text"`
	IsDone      bool      `json:"isDone" gorm:"not null;default:false"`
	UserID      int       `json:"userId" gorm:"not null;index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`

	// タスクを持つユーザーは削除できない (ON DELETE RESTRICT)
	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TaskCreateRequest はタスク作成リクエストです。
// userId は数値でも数値文字列でも受け付けます。
type TaskCreateRequest struct {
	Title       string       `json:"title" validate:"required,min=1"`
	Description *string      `json:"description"`
	UserID      CoercibleInt `json:"userId"`
}

// TaskUpdateRequest はタスクの部分更新リクエストです。
type TaskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsDone      *bool   `json:"isDone"`
}
