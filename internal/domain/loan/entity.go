package loan

import (
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/pkg/clock"
)

// Status 借阅状态
// 只有ACTIVE和RETURNED会被写入；OVERDUE是查询时推导出的视图
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusReturned Status = "RETURNED"
	StatusOverdue  Status = "OVERDUE"
)

func (s Status) String() string { return string(s) }

// Loan 借阅记录（聚合根）
// 不变量: ReturnDate == nil ⇔ Status != RETURNED
type Loan struct {
	ID         uint
	MemberID   uint
	BookID     *uint // 图书删除后置空
	LoanDate   time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// 查询投影，仅在预加载时填充
	Book   *book.Book
	Member *member.Member
	Fines  []*Fine
}

// NewLoan 创建借阅记录，应还日 = 借出日 + days
func NewLoan(memberID, bookID uint, today time.Time, days int) *Loan {
	id := bookID
	return &Loan{
		MemberID: memberID,
		BookID:   &id,
		LoanDate: clock.Date(today),
		DueDate:  clock.AddDays(today, days),
		Status:   StatusActive,
	}
}

// IsReturned 是否已归还
func (l *Loan) IsReturned() bool {
	return l.ReturnDate != nil
}

// IsOverdue 查询时推导的逾期判断: 未归还且应还日早于today
func (l *Loan) IsOverdue(today time.Time) bool {
	return !l.IsReturned() && l.DueDate.Before(clock.Date(today))
}

// DaysOverdue 截至today的逾期天数，未逾期为0
func (l *Loan) DaysOverdue(today time.Time) int {
	end := today
	if l.ReturnDate != nil {
		end = *l.ReturnDate
	}
	days := clock.DaysBetween(l.DueDate, end)
	if days < 0 {
		return 0
	}
	return days
}

// DisplayStatus 对外展示的状态（未归还且逾期时为OVERDUE）
func (l *Loan) DisplayStatus(today time.Time) Status {
	if l.IsOverdue(today) {
		return StatusOverdue
	}
	return l.Status
}

// MarkReturned 归还（状态机唯一的迁移 ACTIVE → RETURNED）
func (l *Loan) MarkReturned(today time.Time) error {
	if l.IsReturned() || l.Status == StatusReturned {
		return ErrAlreadyReturned
	}
	t := clock.Date(today)
	l.ReturnDate = &t
	l.Status = StatusReturned
	return nil
}
