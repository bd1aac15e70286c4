package loan

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/event"
	"github.com/xiebiao/library/internal/domain/inventory"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/transaction"
	"github.com/xiebiao/library/pkg/clock"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// ReturnUseCase 还书
// 同一事务内: 标记归还 → 逾期则生成罚款 → 图书仍存在时释放副本
type ReturnUseCase struct {
	txManager   transaction.Manager
	loanRepo    loan.Repository
	accountant  *inventory.Accountant
	bookService book.Service
	publisher   event.Publisher
	policy      loan.Policy
	clock       clock.Clock
}

// NewReturnUseCase 创建还书用例
func NewReturnUseCase(
	txManager transaction.Manager,
	loanRepo loan.Repository,
	accountant *inventory.Accountant,
	bookService book.Service,
	publisher event.Publisher,
	policy loan.Policy,
	clk clock.Clock,
) *ReturnUseCase {
	if publisher == nil {
		publisher = event.NoopPublisher{}
	}
	return &ReturnUseCase{
		txManager:   txManager,
		loanRepo:    loanRepo,
		accountant:  accountant,
		bookService: bookService,
		publisher:   publisher,
		policy:      policy,
		clock:       clk,
	}
}

// Execute 执行还书，重复归还返回ErrAlreadyReturned且不做任何修改
func (uc *ReturnUseCase) Execute(ctx context.Context, loanID uint) (resp *LoanResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "ReturnUseCase.Execute")
	defer func() { application.Finish(span, "return", err) }()

	today := uc.clock.Today()

	var (
		returned *loan.Loan
		fine     *loan.Fine
		released bool
	)
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		l, err := uc.loanRepo.LockByID(ctx, loanID)
		if err != nil {
			return err
		}
		if err := l.MarkReturned(today); err != nil {
			return err
		}
		if err := uc.loanRepo.MarkReturned(ctx, l); err != nil {
			return err
		}

		if fine = uc.policy.FineFor(l); fine != nil {
			if err := uc.loanRepo.CreateFine(ctx, fine); err != nil {
				return err
			}
		}

		// 图书已删除(book_id置空)时没有可修正的库存
		if l.BookID != nil {
			if released, err = uc.accountant.ReleaseCopy(ctx, *l.BookID); err != nil {
				return err
			}
		}

		returned = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	if returned.BookID != nil {
		uc.bookService.Invalidate(ctx, *returned.BookID)
	}
	metrics.LoanReturned(fine != nil)

	uc.publisher.Publish(ctx, event.New(event.LoanReturned, event.LoanPayload{
		LoanID:     returned.ID,
		MemberID:   returned.MemberID,
		BookID:     returned.BookID,
		DueDate:    clock.Format(returned.DueDate),
		ReturnDate: clock.FormatPtr(returned.ReturnDate),
		Late:       fine != nil,
	}))

	log := logger.Ctx(ctx).With(zap.Uint("loan_id", returned.ID))
	if fine != nil {
		metrics.FineCreated(fine.Amount)
		uc.publisher.Publish(ctx, event.New(event.FineCreated, event.FinePayload{
			FineID:   fine.ID,
			LoanID:   returned.ID,
			MemberID: returned.MemberID,
			Amount:   fine.Amount,
		}))
		log.Info("逾期还书，已生成罚款",
			zap.Int("days_overdue", returned.DaysOverdue(today)),
			zap.Int64("amount", fine.Amount))
	} else {
		log.Info("还书成功", zap.Bool("copy_released", released))
	}

	full, err := uc.loanRepo.FindByID(ctx, returned.ID)
	if err != nil {
		log.Warn("还书已提交，重新查询失败", zap.Error(err))
		if fine != nil {
			returned.Fines = append(returned.Fines, fine)
		}
		return NewLoanResponse(returned, today), nil
	}
	return NewLoanResponse(full, today), nil
}
