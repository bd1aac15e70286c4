package book

import (
	"context"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/tracing"
)

// ListBooksUseCase 图书列表/搜索用例
// 关键词同时匹配书名、作者、ISBN(不区分大小写)，按ID降序
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	application.ListRequest
	Query string // 搜索关键词，为空返回全部
}

// ListBooksResponse 列表查询响应
type ListBooksResponse = application.ListResponse[*application.BookResponse]

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (resp *ListBooksResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "ListBooksUseCase.Execute")
	defer func() { application.Finish(span, "list_books", err) }()

	page := req.ListRequest.Normalize()

	books, total, err := uc.bookService.Search(ctx, book.ListParams{
		Skip:  page.Skip,
		Limit: page.Limit,
		Query: req.Query,
	})
	if err != nil {
		return nil, err
	}

	return &ListBooksResponse{
		List:  application.NewBookResponses(books),
		Total: total,
		Skip:  page.Skip,
		Limit: page.Limit,
	}, nil
}
