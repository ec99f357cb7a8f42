// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrTaskNotFound   = errors.New("task not found")
	ErrDuplicateEmail = errors.New("duplicate email")
	// ErrUnknownUser はタスクの userId が存在しないユーザーを指している場合のエラーです。
	ErrUnknownUser = errors.New("user does not exist")
	// ErrUserHasTasks はタスクを所有しているユーザーを削除しようとした場合のエラーです。
	ErrUserHasTasks = errors.New("user still owns tasks")
)

// constraintKind はストアが返した制約違反の種類です。
type constraintKind int

const (
	constraintNone constraintKind = iota
	constraintUnique
	constraintForeignKey
)

// classify はドライバ固有のエラーを制約違反の種類に分類します。
// gorm の TranslateError が効かない場合に備えて各ドライバのエラーコードも確認します。
func classify(err error) constraintKind {
	if err == nil {
		return constraintNone
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return constraintUnique
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return constraintForeignKey
	}

	// MySQL: 1062 重複エントリー, 1451/1452 外部キー
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062:
			return constraintUnique
		case 1451, 1452:
			return constraintForeignKey
		}
	}

	// PostgreSQL: 23505 unique_violation, 23503 foreign_key_violation
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return constraintUnique
		case "23503":
			return constraintForeignKey
		}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return classifySQLite(sqliteErr.ExtendedCode, sqliteErr.Error())
	}

	return constraintNone
}

// classifySQLite は SQLite の拡張エラーコードを分類します。
// ON DELETE RESTRICT の違反は SQLITE_CONSTRAINT_TRIGGER (1811) として報告されるため、
// メッセージで外部キー違反かどうかを判定します。
func classifySQLite(code sqlite3.ErrNoExtended, msg string) constraintKind {
	switch code {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return constraintUnique
	case sqlite3.ErrConstraintForeignKey:
		return constraintForeignKey
	case sqlite3.ErrConstraintTrigger:
		if strings.Contains(msg, "FOREIGN KEY constraint failed") {
			return constraintForeignKey
		}
	}
	return constraintNone
}
