package loan

import (
	"context"
	"time"
)

// Repository 借阅仓储接口
// 在借谓词统一为 return_date IS NULL
type Repository interface {
	// Create 创建借阅
	Create(ctx context.Context, loan *Loan) error

	// FindByID 查询借阅并预加载图书、读者、罚款
	FindByID(ctx context.Context, id uint) (*Loan, error)

	// LockByID 悲观锁查询借阅（不预加载）
	LockByID(ctx context.Context, id uint) (*Loan, error)

	// MarkReturned 保存归还日期和状态
	MarkReturned(ctx context.Context, loan *Loan) error

	// CreateFine 创建罚款
	CreateFine(ctx context.Context, fine *Fine) error

	// CountActiveByMember 读者在借数量
	CountActiveByMember(ctx context.Context, memberID uint) (int64, error)

	// CountActiveByBook 图书在借数量
	CountActiveByBook(ctx context.Context, bookID uint) (int64, error)

	// ExistsActive 读者当前是否借着这本书
	ExistsActive(ctx context.Context, memberID, bookID uint) (bool, error)

	// DetachBook 图书删除前把历史借阅的book_id置空
	DetachBook(ctx context.Context, bookID uint) error

	// List 分页查询，预加载图书、读者、罚款，按ID降序
	List(ctx context.Context, params ListParams) ([]*Loan, int64, error)
}

// ListParams 借阅列表查询参数
type ListParams struct {
	Skip     int
	Limit    int
	MemberID *uint
	BookID   *uint
	Status   Status    // 空串不过滤；OVERDUE按推导谓词过滤
	Today    time.Time // Status为OVERDUE时使用
}

// ParseStatus 解析查询参数中的状态
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "":
		return "", nil
	case StatusActive, StatusReturned, StatusOverdue:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
