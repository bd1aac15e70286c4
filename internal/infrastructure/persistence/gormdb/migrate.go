package gormdb

import (
	"fmt"

	"gorm.io/gorm"
)

// pendingReservationIndex 每个(读者, 图书)最多一条pending预约
// MySQL不支持部分索引，由预约用例在读者行锁内检查
const pendingReservationIndex = `CREATE UNIQUE INDEX IF NOT EXISTS uq_reservations_pending
ON reservations (member_id, book_id) WHERE status = 'pending'`

// Migrate 迁移表结构
// AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&BookModel{},
		&MemberModel{},
		&LoanModel{},
		&FineModel{},
		&ReservationModel{},
	); err != nil {
		return err
	}

	switch db.Dialector.Name() {
	case "sqlite", "postgres":
		if err := db.Exec(pendingReservationIndex).Error; err != nil {
			return fmt.Errorf("创建预约唯一索引失败: %w", err)
		}
	}
	return nil
}
