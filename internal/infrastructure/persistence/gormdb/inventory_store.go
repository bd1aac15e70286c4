package gormdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/inventory"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// inventoryStore 可借副本数的条件更新
type inventoryStore struct {
	db *gorm.DB
}

// NewInventoryStore 创建库存存储
func NewInventoryStore(db *gorm.DB) inventory.Store {
	return &inventoryStore{db: db}
}

// DecrementAvailable UPDATE books SET available_copies = available_copies - 1
// WHERE id = ? AND available_copies > 0
func (s *inventoryStore) DecrementAvailable(ctx context.Context, bookID uint) (int64, error) {
	result := conn(ctx, s.db).Model(&BookModel{}).
		Where("id = ? AND available_copies > 0", bookID).
		Update("available_copies", gorm.Expr("available_copies - 1"))
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "扣减可借数量失败")
	}
	return result.RowsAffected, nil
}

// IncrementAvailable 可借数加1，不超过总册数
func (s *inventoryStore) IncrementAvailable(ctx context.Context, bookID uint) (int64, error) {
	result := conn(ctx, s.db).Model(&BookModel{}).
		Where("id = ?", bookID).
		Update("available_copies", gorm.Expr(
			"CASE WHEN available_copies < total_copies THEN available_copies + 1 ELSE available_copies END"))
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "恢复可借数量失败")
	}
	return result.RowsAffected, nil
}
