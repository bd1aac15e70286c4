package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/asset"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/saga"
	"github.com/xiebiao/library/pkg/tracing"
)

// CreateBookUseCase 图书入库用例
// 流程: 参数校验 → ISBN查重 → (上传PDF/封面) → 落库
// 上传与落库组成saga，落库失败时删除已上传的文件
type CreateBookUseCase struct {
	bookService book.Service
	store       asset.Store // 未配置对象存储时为nil
}

// NewCreateBookUseCase 创建入库用例
func NewCreateBookUseCase(bookService book.Service, store asset.Store) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		store:       store,
	}
}

// CreateBookRequest 入库请求
type CreateBookRequest struct {
	Title           string
	Author          string
	Edition         *string
	PublicationYear *int
	ISBN            string  // 原始输入，允许带-和空格
	TotalCopies     *int    // 默认1
	FilePath        *string // 已上传的PDF地址
	ImagePath       *string // 已上传的封面地址，为空时使用默认封面
	File            *Upload // 优先于FilePath
	Cover           *Upload // 优先于ImagePath
}

// Execute 执行入库
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (resp *application.BookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "CreateBookUseCase.Execute")
	defer func() { application.Finish(span, "create_book", err) }()

	total := 1
	if req.TotalCopies != nil {
		total = *req.TotalCopies
	}

	// 1. 校验并构造实体(ISBN规范化)
	b, err := uc.bookService.Prepare(book.CreateParams{
		Title:           req.Title,
		Author:          req.Author,
		Edition:         req.Edition,
		PublicationYear: req.PublicationYear,
		ISBN:            req.ISBN,
		TotalCopies:     total,
		FilePath:        req.FilePath,
		ImagePath:       req.ImagePath,
	})
	if err != nil {
		return nil, err
	}

	// 2. 先查重再上传，避免为重复图书上传文件
	if err = uc.bookService.EnsureISBNAvailable(ctx, b.ISBN); err != nil {
		return nil, err
	}

	if (req.File != nil || req.Cover != nil) && uc.store == nil {
		err = asset.ErrStoreDisabled
		return nil, err
	}

	// 3. 上传 + 落库
	sg := saga.New("create_book", sagaTimeout)
	if req.File != nil {
		addUploadStep(sg, uc.store, "upload_pdf", asset.PrefixPDF, req.File, &b.FilePath)
	}
	if req.Cover != nil {
		addUploadStep(sg, uc.store, "upload_cover", asset.PrefixCover, req.Cover, &b.ImagePath)
	}
	sg.AddStep("insert_book", func(ctx context.Context) error {
		return uc.bookService.Create(ctx, b)
	}, nil)

	if err = sg.Execute(ctx); err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info("图书已入库",
		zap.Uint("book_id", b.ID),
		zap.String("isbn", b.ISBN),
		zap.Int("total_copies", b.TotalCopies))

	return application.NewBookResponse(b), nil
}
