package gormdb

import (
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// 分页默认值
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// isDuplicateError 判断是否为唯一索引冲突
// - PostgreSQL: 23505 unique_violation
// - MySQL: 1062 Duplicate entry
// - SQLite: SQLITE_CONSTRAINT_UNIQUE
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return strings.Contains(err.Error(), "Duplicate entry")
}

// paginate skip/limit分页，limit<=0使用默认值
func paginate(skip, limit int) func(db *gorm.DB) *gorm.DB {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(skip).Limit(limit)
	}
}

// likePattern 不区分大小写的子串匹配参数
func likePattern(q string) string {
	return "%" + strings.ToLower(q) + "%"
}
