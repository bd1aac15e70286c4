package loan

import (
	"time"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/clock"
)

// FineResponse 罚款
type FineResponse struct {
	ID     uint   `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

// LoanResponse 借阅响应
// status为展示状态：未归还且逾期时为OVERDUE
type LoanResponse struct {
	ID         uint                        `json:"id"`
	MemberID   uint                        `json:"member_id"`
	BookID     *uint                       `json:"book_id"`
	LoanDate   string                      `json:"loan_date"`
	DueDate    string                      `json:"due_date"`
	ReturnDate *string                     `json:"return_date"`
	Status     string                      `json:"status"`
	IsOverdue  bool                        `json:"is_overdue"`
	Book       *application.BookResponse   `json:"book,omitempty"`
	Member     *application.MemberResponse `json:"member,omitempty"`
	Fines      []FineResponse              `json:"fines"`
}

// NewLoanResponse 实体转响应
func NewLoanResponse(l *loan.Loan, today time.Time) *LoanResponse {
	fines := make([]FineResponse, 0, len(l.Fines))
	for _, f := range l.Fines {
		fines = append(fines, FineResponse{ID: f.ID, Amount: f.Amount, Status: string(f.Status)})
	}
	return &LoanResponse{
		ID:         l.ID,
		MemberID:   l.MemberID,
		BookID:     l.BookID,
		LoanDate:   clock.Format(l.LoanDate),
		DueDate:    clock.Format(l.DueDate),
		ReturnDate: clock.FormatPtr(l.ReturnDate),
		Status:     l.DisplayStatus(today).String(),
		IsOverdue:  l.IsOverdue(today),
		Book:       application.NewBookResponse(l.Book),
		Member:     application.NewMemberResponse(l.Member),
		Fines:      fines,
	}
}
