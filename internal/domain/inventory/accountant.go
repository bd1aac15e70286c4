// Package inventory 维护图书可借副本数
//
// 规则：任何改变某本书在借集合的状态转换，必须在同一事务中把
// available_copies 调整 ±1，从而保证
//
//	available_copies + 在借数 = total_copies
package inventory

import (
	"context"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	// ErrOutOfStock 无可借副本
	ErrOutOfStock = apperrors.New(apperrors.ErrCodeOutOfStock, "该图书暂无可借副本")

	// ErrInventoryUnderflow 调整总册数后可借数量将为负
	ErrInventoryUnderflow = apperrors.New(apperrors.ErrCodeInventoryUnderflow, "总册数不能少于在借册数")
)

// Store 副本计数的原子更新（由图书仓储实现）
type Store interface {
	// DecrementAvailable 条件扣减：available_copies > 0 时减1，返回受影响行数
	DecrementAvailable(ctx context.Context, bookID uint) (int64, error)

	// IncrementAvailable 归还：available_copies = min(available_copies+1, total_copies)
	// 图书不存在时返回0
	IncrementAvailable(ctx context.Context, bookID uint) (int64, error)
}

// Accountant 库存记账员
type Accountant struct {
	store Store
}

// NewAccountant 创建库存记账员
func NewAccountant(store Store) *Accountant {
	return &Accountant{store: store}
}

// ReserveCopy 占用一个副本
// 使用条件UPDATE，0行受影响即视为无可借副本（并发借阅时只有一个能成功）
func (a *Accountant) ReserveCopy(ctx context.Context, bookID uint) error {
	n, err := a.store.DecrementAvailable(ctx, bookID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOutOfStock
	}
	return nil
}

// ReleaseCopy 释放一个副本，返回图书是否仍存在
func (a *Accountant) ReleaseCopy(ctx context.Context, bookID uint) (bool, error) {
	n, err := a.store.IncrementAvailable(ctx, bookID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Resize 计算总册数变化后的可借数
// 总册数变化Δ，可借数同样变化Δ；结果为负则拒绝
func Resize(total, available, newTotal int) (int, error) {
	if newTotal < 0 {
		return 0, ErrInventoryUnderflow
	}
	next := available + (newTotal - total)
	if next < 0 {
		return 0, ErrInventoryUnderflow
	}
	return next, nil
}
