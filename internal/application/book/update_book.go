package book

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/asset"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/transaction"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/saga"
	"github.com/xiebiao/library/pkg/tracing"
)

// UpdateBookUseCase 修改图书
// 可修改: 书名、作者、总册数、封面
// 总册数变化Δ时可借数同样变化Δ，结果为负返回ErrInventoryUnderflow
type UpdateBookUseCase struct {
	txManager   transaction.Manager
	bookRepo    book.Repository
	bookService book.Service
	store       asset.Store
}

// NewUpdateBookUseCase 创建修改用例
func NewUpdateBookUseCase(
	txManager transaction.Manager,
	bookRepo book.Repository,
	bookService book.Service,
	store asset.Store,
) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		txManager:   txManager,
		bookRepo:    bookRepo,
		bookService: bookService,
		store:       store,
	}
}

// UpdateBookRequest 修改请求，nil字段不修改
type UpdateBookRequest struct {
	ID          uint
	Title       *string
	Author      *string
	TotalCopies *int
	ImagePath   *string
	Cover       *Upload // 优先于ImagePath
}

// Execute 执行修改
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (resp *application.BookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "UpdateBookUseCase.Execute")
	defer func() { application.Finish(span, "update_book", err) }()

	if req.Cover != nil && uc.store == nil {
		err = asset.ErrStoreDisabled
		return nil, err
	}

	var updated *book.Book
	sg := saga.New("update_book", sagaTimeout)
	if req.Cover != nil {
		addUploadStep(sg, uc.store, "upload_cover", asset.PrefixCover, req.Cover, &req.ImagePath)
	}
	sg.AddStep("update_book", func(ctx context.Context) error {
		var err error
		updated, err = uc.apply(ctx, req)
		return err
	}, nil)

	if err = sg.Execute(ctx); err != nil {
		return nil, err
	}

	// 提交后再清缓存
	uc.bookService.Invalidate(ctx, updated.ID)

	logger.Ctx(ctx).Info("图书已修改",
		zap.Uint("book_id", updated.ID),
		zap.Int("total_copies", updated.TotalCopies),
		zap.Int("available_copies", updated.AvailableCopies))

	return application.NewBookResponse(updated), nil
}

// apply 在事务内锁定图书并应用修改
func (uc *UpdateBookUseCase) apply(ctx context.Context, req UpdateBookRequest) (*book.Book, error) {
	var b *book.Book
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		b, err = uc.bookRepo.LockByID(ctx, req.ID)
		if err != nil {
			return err
		}

		// 空字符串视为未修改
		if req.Title != nil {
			if title := strings.TrimSpace(*req.Title); title != "" {
				b.Title = title
			}
		}
		if req.Author != nil {
			if author := strings.TrimSpace(*req.Author); author != "" {
				b.Author = author
			}
		}
		if req.TotalCopies != nil {
			if err := b.ChangeTotalCopies(*req.TotalCopies); err != nil {
				return err
			}
		}
		if req.ImagePath != nil && *req.ImagePath != "" {
			b.ImagePath = req.ImagePath
		}

		return uc.bookRepo.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
