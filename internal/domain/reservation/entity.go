package reservation

import (
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/pkg/clock"
)

// StatusPending 预约的初始状态，也是唯一会写入的状态
const StatusPending = "pending"

// Reservation 预约（借阅意向，不占用库存）
// 同一(读者, 图书)最多一条pending预约
type Reservation struct {
	ID              uint
	MemberID        uint
	BookID          uint
	ReservationDate time.Time
	Status          string
	CreatedAt       time.Time

	// 查询投影
	Book   *book.Book
	Member *member.Member
}

// NewReservation 创建待处理预约
func NewReservation(memberID, bookID uint, today time.Time) *Reservation {
	return &Reservation{
		MemberID:        memberID,
		BookID:          bookID,
		ReservationDate: clock.Date(today),
		Status:          StatusPending,
	}
}
