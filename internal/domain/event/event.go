// Package event 借阅领域事件
// 事件在事务提交后发布，发布失败不影响业务结果
package event

import (
	"context"
	"time"
)

// 路由键
const (
	LoanBorrowed = "loan.borrowed"
	LoanReturned = "loan.returned"
	FineCreated  = "fine.created"
)

// Event 领域事件
type Event struct {
	Name       string      `json:"name"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// LoanPayload 借出/归还事件内容
type LoanPayload struct {
	LoanID     uint    `json:"loan_id"`
	MemberID   uint    `json:"member_id"`
	BookID     *uint   `json:"book_id"`
	DueDate    string  `json:"due_date"`
	ReturnDate *string `json:"return_date,omitempty"`
	Late       bool    `json:"late,omitempty"`
}

// FinePayload 罚款事件内容
type FinePayload struct {
	FineID   uint  `json:"fine_id"`
	LoanID   uint  `json:"loan_id"`
	MemberID uint  `json:"member_id"`
	Amount   int64 `json:"amount"`
}

// Publisher 事件发布者
// 实现自行记录失败日志，不向调用方返回错误
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// New 创建事件
func New(name string, payload interface{}) Event {
	return Event{Name: name, OccurredAt: time.Now().UTC(), Payload: payload}
}

// NoopPublisher 未启用消息队列时使用
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) {}
