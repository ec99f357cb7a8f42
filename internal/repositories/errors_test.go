package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want constraintKind
	}{
		{name: "nil", err: nil, want: constraintNone},
		{name: "plain", err: errors.New("boom"), want: constraintNone},
		{name: "gorm duplicate", err: fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), want: constraintUnique},
		{name: "gorm foreign key", err: gorm.ErrForeignKeyViolated, want: constraintForeignKey},
		{name: "mysql duplicate", err: &mysql.MySQLError{Number: 1062}, want: constraintUnique},
		{name: "mysql parent row", err: &mysql.MySQLError{Number: 1451}, want: constraintForeignKey},
		{name: "mysql child row", err: &mysql.MySQLError{Number: 1452}, want: constraintForeignKey},
		{name: "postgres unique", err: &pgconn.PgError{Code: "23505"}, want: constraintUnique},
		{name: "postgres foreign key", err: &pgconn.PgError{Code: "23503"}, want: constraintForeignKey},
		{name: "postgres other", err: &pgconn.PgError{Code: "23502"}, want: constraintNone},
		{name: "sqlite unique", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, want: constraintUnique},
		{name: "sqlite foreign key", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, want: constraintForeignKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}

func TestClassifySQLite_RestrictTrigger(t *testing.T) {
	// ON DELETE RESTRICT はトリガー制約として報告される
	assert.Equal(t, constraintForeignKey, classifySQLite(sqlite3.ErrConstraintTrigger, "FOREIGN KEY constraint failed"))
	assert.Equal(t, constraintNone, classifySQLite(sqlite3.ErrConstraintTrigger, "raised by trigger"))
	assert.Equal(t, constraintNone, classifySQLite(sqlite3.ErrConstraintNotNull, "NOT NULL constraint failed: tasks.title"))
}
