package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/transaction"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/tracing"
)

// DeleteBookUseCase 删除图书
// 有未归还借阅时拒绝；预约一并删除；历史借阅保留但book_id置空
type DeleteBookUseCase struct {
	txManager       transaction.Manager
	bookRepo        book.Repository
	loanRepo        loan.Repository
	reservationRepo reservation.Repository
	bookService     book.Service
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(
	txManager transaction.Manager,
	bookRepo book.Repository,
	loanRepo loan.Repository,
	reservationRepo reservation.Repository,
	bookService book.Service,
) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		txManager:       txManager,
		bookRepo:        bookRepo,
		loanRepo:        loanRepo,
		reservationRepo: reservationRepo,
		bookService:     bookService,
	}
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, "DeleteBookUseCase.Execute")
	defer func() { application.Finish(span, "delete_book", err) }()

	var removed int64
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		// 锁定图书，防止并发借出
		if _, err := uc.bookRepo.LockByID(ctx, id); err != nil {
			return err
		}

		active, err := uc.loanRepo.CountActiveByBook(ctx, id)
		if err != nil {
			return err
		}
		if active > 0 {
			return book.ErrBookInUse
		}

		if removed, err = uc.reservationRepo.DeleteByBook(ctx, id); err != nil {
			return err
		}
		if err := uc.loanRepo.DetachBook(ctx, id); err != nil {
			return err
		}
		return uc.bookRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.bookService.Invalidate(ctx, id)

	logger.Ctx(ctx).Info("图书已删除",
		zap.Uint("book_id", id),
		zap.Int64("reservations_removed", removed))
	return nil
}
