package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 所有方法都会参与ctx中携带的事务
type Repository interface {
	// Create 创建图书，ISBN重复返回ErrISBNDuplicate
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据规范化ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// LockByID 悲观锁查询图书(SELECT ... FOR UPDATE)
	LockByID(ctx context.Context, id uint) (*Book, error)

	// Update 保存图书全部可变字段
	Update(ctx context.Context, book *Book) error

	// Delete 物理删除图书
	Delete(ctx context.Context, id uint) error

	// Search 搜索图书(标题/作者/ISBN不区分大小写子串匹配)，按ID降序
	Search(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Skip  int
	Limit int
	Query string // 为空时不过滤
}
