package book

import (
	"context"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/tracing"
)

// GetBookUseCase 图书详情(经由缓存)
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// Execute 查询图书详情
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (resp *application.BookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "GetBookUseCase.Execute")
	defer func() { application.Finish(span, "get_book", err) }()

	b, err := uc.bookService.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return application.NewBookResponse(b), nil
}
