package loan

import "time"

// FineStatus 罚款状态
type FineStatus string

const (
	FinePending FineStatus = "PENDING"
	FinePaid    FineStatus = "PAID" // 线下人工处理，核心流程不写入
)

// Fine 逾期罚款
// 只在逾期归还时创建
type Fine struct {
	ID        uint
	LoanID    uint
	Amount    int64 // 货币最小单位
	Status    FineStatus
	CreatedAt time.Time
}
