// Package testutil 测试辅助：基于临时SQLite文件的真实数据库
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/gormdb"
)

// NewDB 创建已迁移的临时SQLite数据库，测试结束自动关闭
// 使用文件而不是:memory:，保证连接池里的多个连接看到同一个库
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:          config.DriverSQLite,
			Path:            filepath.Join(t.TempDir(), "library_test.db"),
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Minute,
			AutoMigrate:     true,
			LogLevel:        "silent",
		},
	}

	db, err := gormdb.NewDB(cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = gormdb.Close(db)
	})
	return db
}

// Date 构造UTC零点日期
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FixedClock 返回固定时间的时钟
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
