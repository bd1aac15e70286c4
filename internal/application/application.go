// Package application 各用例共享的响应投影与观测辅助
//
// 子包按聚合划分(book/member/loan/reservation/analytics)，
// 每个用例一个结构体: XUseCase + NewXUseCase + Execute(ctx, XRequest)
package application

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/pkg/clock"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// Finish 结束用例Span，失败时按错误分类计数
func Finish(span trace.Span, operation string, err error) {
	tracing.End(span, err)
	if err != nil {
		metrics.OperationFailed(operation, apperrors.GetAppError(err).Kind())
	}
}

// BookResponse 图书响应
type BookResponse struct {
	ID              uint    `json:"id"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Edition         *string `json:"edition"`
	PublicationYear *int    `json:"publication_year"`
	ISBN            string  `json:"isbn"`
	TotalCopies     int     `json:"total_copies"`
	AvailableCopies int     `json:"available_copies"`
	FilePath        *string `json:"file_path"`
	ImagePath       *string `json:"image_path"`
}

// NewBookResponse 实体转响应，nil返回nil
func NewBookResponse(b *book.Book) *BookResponse {
	if b == nil {
		return nil
	}
	return &BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Edition:         b.Edition,
		PublicationYear: b.PublicationYear,
		ISBN:            b.ISBN,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		FilePath:        b.FilePath,
		ImagePath:       b.ImagePath,
	}
}

// NewBookResponses 批量转换
func NewBookResponses(books []*book.Book) []*BookResponse {
	list := make([]*BookResponse, len(books))
	for i, b := range books {
		list[i] = NewBookResponse(b)
	}
	return list
}

// MemberResponse 读者响应
type MemberResponse struct {
	ID         uint    `json:"id"`
	Email      string  `json:"email"`
	FullName   string  `json:"full_name"`
	Phone      *string `json:"phone"`
	IsActive   bool    `json:"is_active"`
	JoinedDate string  `json:"joined_date"`
}

// NewMemberResponse 实体转响应，nil返回nil
func NewMemberResponse(m *member.Member) *MemberResponse {
	if m == nil {
		return nil
	}
	return &MemberResponse{
		ID:         m.ID,
		Email:      m.Email,
		FullName:   m.FullName,
		Phone:      m.Phone,
		IsActive:   m.IsActive,
		JoinedDate: clock.Format(m.JoinedDate),
	}
}

// NewMemberResponses 批量转换
func NewMemberResponses(members []*member.Member) []*MemberResponse {
	list := make([]*MemberResponse, len(members))
	for i, m := range members {
		list[i] = NewMemberResponse(m)
	}
	return list
}

// 分页默认值与上限
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ListRequest 分页参数
type ListRequest struct {
	Skip  int
	Limit int
}

// Normalize skip<0按0处理，limit<=0取默认值，超过上限截断
func (r ListRequest) Normalize() ListRequest {
	if r.Skip < 0 {
		r.Skip = 0
	}
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	return r
}

// ListResponse 分页结果
type ListResponse[T any] struct {
	List  []T   `json:"list"`
	Total int64 `json:"total"`
	Skip  int   `json:"skip"`
	Limit int   `json:"limit"`
}
