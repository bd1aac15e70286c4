package reservation

import (
	"context"
)

// Repository 预约仓储接口
type Repository interface {
	// Create 创建预约
	// 违反pending唯一索引时返回ErrDuplicateReservation
	Create(ctx context.Context, r *Reservation) error

	// ExistsPending 是否已有pending预约
	ExistsPending(ctx context.Context, memberID, bookID uint) (bool, error)

	// FindByID 查询预约并预加载图书和读者
	FindByID(ctx context.Context, id uint) (*Reservation, error)

	// Delete 删除预约，不存在返回ErrReservationNotFound
	Delete(ctx context.Context, id uint) error

	// DeleteByBook 删除某本书的全部预约
	DeleteByBook(ctx context.Context, bookID uint) (int64, error)

	// List 分页查询，按ID降序
	List(ctx context.Context, params ListParams) ([]*Reservation, int64, error)
}

// ListParams 查询参数
type ListParams struct {
	Skip     int
	Limit    int
	MemberID *uint
	BookID   *uint
}
