package member

import (
	"context"
)

// Repository 读者仓储接口
// 具体实现在infrastructure/persistence/gormdb
type Repository interface {
	// Create 创建读者
	// 邮箱已存在时返回ErrEmailDuplicate
	Create(ctx context.Context, member *Member) error

	// FindByID 不存在时返回ErrMemberNotFound
	FindByID(ctx context.Context, id uint) (*Member, error)

	// LockByID 悲观锁查询读者，借书时用来串行化同一读者的并发借阅
	LockByID(ctx context.Context, id uint) (*Member, error)

	// UpdateProfile 只写姓名和电话，不触碰启用状态
	UpdateProfile(ctx context.Context, member *Member) error

	// UpdateStatus 只写启用状态
	UpdateStatus(ctx context.Context, id uint, active bool) error

	// List 按姓名或邮箱不区分大小写搜索，按ID降序
	List(ctx context.Context, params ListParams) ([]*Member, int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Skip  int
	Limit int
	Query string
}
