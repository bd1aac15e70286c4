// Package transaction 定义事务边界接口
package transaction

import "context"

// Manager 事务管理器（由infrastructure层实现）
// fn内通过ctx调用的所有Repository操作处于同一事务，fn返回error时回滚
type Manager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
