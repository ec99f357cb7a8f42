// Package models はユーザーとタスクのデータ構造を定義します。
package models

import "time"

// User はユーザーのデータベース構造体を表します。
// JSONタグ: クライアントとの通信用
// gormタグ: テーブル定義用 (email はユニーク)
type User struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Email     string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// UserCreateRequest はユーザー作成リクエストです。
type UserCreateRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=1"`
}

// UserUpdateRequest はユーザーの部分更新リクエストです。
// nil のフィールドは「送られていない」ことを表します。
type UserUpdateRequest struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
}
