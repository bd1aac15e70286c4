// Package analytics 只读统计，全部在查询时计算
package analytics

import (
	"context"
	"time"
)

// Dashboard 概览
type Dashboard struct {
	TotalBooks   int64 `json:"total_books"`
	TotalMembers int64 `json:"total_members"`
	ActiveLoans  int64 `json:"active_loans"`
	OverdueLoans int64 `json:"overdue_loans"`
	PendingFines int64 `json:"pending_fines"`
}

// TopBook 借阅次数排行
type TopBook struct {
	BookID          uint   `json:"book_id"`
	BookTitle       string `json:"book_title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	TotalLoans      int64  `json:"total_loans"`
	AvailableCopies int    `json:"available_copies"`
}

// OverdueLoan 逾期借阅行（图书可能已删除）
type OverdueLoan struct {
	LoanID      uint
	MemberName  string
	MemberEmail string
	BookTitle   *string
	DueDate     time.Time
}

// UnknownBook 图书已被删除时的占位标题
const UnknownBook = "Unknown Book"

// DefaultTopLimit 排行默认条数
const DefaultTopLimit = 5

// Repository 统计查询
type Repository interface {
	Dashboard(ctx context.Context, today time.Time) (*Dashboard, error)

	// TopBooks 按借阅次数降序，次数相同按图书ID升序
	TopBooks(ctx context.Context, limit int) ([]*TopBook, error)

	// OverdueLoans return_date IS NULL AND due_date < today，按应还日升序
	OverdueLoans(ctx context.Context, today time.Time) ([]*OverdueLoan, error)
}
