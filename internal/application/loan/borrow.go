package loan

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/event"
	"github.com/xiebiao/library/internal/domain/inventory"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
	"github.com/xiebiao/library/pkg/clock"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// BorrowUseCase 借书
//
// 前置条件按顺序检查，第一个失败即返回:
//  1. 图书存在          → ErrBookNotFound
//  2. 有可借副本        → ErrOutOfStock
//  3. 读者存在          → ErrMemberNotFound
//  4. 读者已启用        → ErrMemberInactive
//  5. 在借数未达上限    → ErrLoanLimitExceeded
//  6. 借期在[1, 上限]内 → ErrInvalidDays
//
// 全部检查与扣减副本、插入借阅在同一事务内完成。
// 图书行和读者行都加行锁：前者串行化同一本书的并发借阅，
// 后者保证在借数的统计和插入之间不会插入别的借阅。
type BorrowUseCase struct {
	txManager   transaction.Manager
	bookRepo    book.Repository
	memberRepo  member.Repository
	loanRepo    loan.Repository
	accountant  *inventory.Accountant
	bookService book.Service
	publisher   event.Publisher
	policy      loan.Policy
	clock       clock.Clock
}

// NewBorrowUseCase 创建借书用例
func NewBorrowUseCase(
	txManager transaction.Manager,
	bookRepo book.Repository,
	memberRepo member.Repository,
	loanRepo loan.Repository,
	accountant *inventory.Accountant,
	bookService book.Service,
	publisher event.Publisher,
	policy loan.Policy,
	clk clock.Clock,
) *BorrowUseCase {
	if publisher == nil {
		publisher = event.NoopPublisher{}
	}
	return &BorrowUseCase{
		txManager:   txManager,
		bookRepo:    bookRepo,
		memberRepo:  memberRepo,
		loanRepo:    loanRepo,
		accountant:  accountant,
		bookService: bookService,
		publisher:   publisher,
		policy:      policy,
		clock:       clk,
	}
}

// BorrowRequest 借书请求
type BorrowRequest struct {
	MemberID uint
	BookID   uint
	Days     *int // nil使用默认借期
}

// Execute 执行借书
func (uc *BorrowUseCase) Execute(ctx context.Context, req BorrowRequest) (resp *LoanResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "BorrowUseCase.Execute")
	defer func() { application.Finish(span, "borrow", err) }()

	today := uc.clock.Today()

	var created *loan.Loan
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		b, err := uc.bookRepo.LockByID(ctx, req.BookID)
		if err != nil {
			return err
		}
		if !b.HasAvailableCopy() {
			return inventory.ErrOutOfStock
		}

		m, err := uc.memberRepo.LockByID(ctx, req.MemberID)
		if err != nil {
			return err
		}
		if !m.CanBorrow() {
			return member.ErrMemberInactive
		}

		active, err := uc.loanRepo.CountActiveByMember(ctx, m.ID)
		if err != nil {
			return err
		}
		if uc.policy.ReachedLimit(active) {
			return loan.LimitExceeded(uc.policy.MaxActiveLoans)
		}

		days, err := uc.policy.ResolveDays(req.Days)
		if err != nil {
			return err
		}

		// 条件扣减，0行受影响同样视为无库存
		if err := uc.accountant.ReserveCopy(ctx, b.ID); err != nil {
			return err
		}

		created = loan.NewLoan(m.ID, b.ID, today, days)
		if err := uc.loanRepo.Create(ctx, created); err != nil {
			return err
		}
		b.AvailableCopies--
		created.Book, created.Member = b, m
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 以下都在提交之后，失败不影响借阅结果
	uc.bookService.Invalidate(ctx, req.BookID)
	metrics.LoanBorrowed()
	uc.publisher.Publish(ctx, event.New(event.LoanBorrowed, event.LoanPayload{
		LoanID:   created.ID,
		MemberID: created.MemberID,
		BookID:   created.BookID,
		DueDate:  clock.Format(created.DueDate),
	}))

	logger.Ctx(ctx).Info("借书成功",
		zap.Uint("loan_id", created.ID),
		zap.Uint("member_id", req.MemberID),
		zap.Uint("book_id", req.BookID),
		zap.String("due_date", clock.Format(created.DueDate)))

	return NewLoanResponse(uc.reload(ctx, created), today), nil
}

// reload 提交后重新查询带关联的借阅，查询失败时返回内存中的实体
func (uc *BorrowUseCase) reload(ctx context.Context, l *loan.Loan) *loan.Loan {
	full, err := uc.loanRepo.FindByID(ctx, l.ID)
	if err != nil {
		logger.Ctx(ctx).Warn("借阅已提交，重新查询失败", zap.Uint("loan_id", l.ID), zap.Error(err))
		return l
	}
	return full
}
