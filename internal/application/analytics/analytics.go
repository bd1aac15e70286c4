package analytics

import (
	"context"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/analytics"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/clock"
	"github.com/xiebiao/library/pkg/tracing"
)

// DashboardUseCase 概览统计
type DashboardUseCase struct {
	repo  analytics.Repository
	clock clock.Clock
}

func NewDashboardUseCase(repo analytics.Repository, clk clock.Clock) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, clock: clk}
}

func (uc *DashboardUseCase) Execute(ctx context.Context) (resp *analytics.Dashboard, err error) {
	ctx, span := tracing.StartSpan(ctx, "DashboardUseCase.Execute")
	defer func() { application.Finish(span, "dashboard", err) }()

	return uc.repo.Dashboard(ctx, uc.clock.Today())
}

// TopBooksUseCase 借阅次数排行
type TopBooksUseCase struct {
	repo analytics.Repository
}

func NewTopBooksUseCase(repo analytics.Repository) *TopBooksUseCase {
	return &TopBooksUseCase{repo: repo}
}

// Execute limit<=0时取默认5条
func (uc *TopBooksUseCase) Execute(ctx context.Context, limit int) (resp []*analytics.TopBook, err error) {
	ctx, span := tracing.StartSpan(ctx, "TopBooksUseCase.Execute")
	defer func() { application.Finish(span, "top_books", err) }()

	if limit <= 0 {
		limit = analytics.DefaultTopLimit
	}
	if limit > application.MaxLimit {
		limit = application.MaxLimit
	}
	return uc.repo.TopBooks(ctx, limit)
}

// OverdueItem 逾期清单行
type OverdueItem struct {
	LoanID        uint   `json:"loan_id"`
	MemberName    string `json:"member_name"`
	MemberEmail   string `json:"member_email"`
	BookTitle     string `json:"book_title"`
	DueDate       string `json:"due_date"`
	DaysOverdue   int    `json:"days_overdue"`
	EstimatedFine int64  `json:"estimated_fine"`
}

// OverdueListUseCase 逾期清单
// 预估罚款与还书时的计算规则一致: 逾期天数 × 每日罚款
type OverdueListUseCase struct {
	repo   analytics.Repository
	policy loan.Policy
	clock  clock.Clock
}

func NewOverdueListUseCase(repo analytics.Repository, policy loan.Policy, clk clock.Clock) *OverdueListUseCase {
	return &OverdueListUseCase{repo: repo, policy: policy, clock: clk}
}

func (uc *OverdueListUseCase) Execute(ctx context.Context) (resp []*OverdueItem, err error) {
	ctx, span := tracing.StartSpan(ctx, "OverdueListUseCase.Execute")
	defer func() { application.Finish(span, "overdue_list", err) }()

	today := uc.clock.Today()
	rows, err := uc.repo.OverdueLoans(ctx, today)
	if err != nil {
		return nil, err
	}

	items := make([]*OverdueItem, len(rows))
	for i, row := range rows {
		title := analytics.UnknownBook
		if row.BookTitle != nil {
			title = *row.BookTitle
		}
		days := clock.DaysBetween(row.DueDate, today)
		items[i] = &OverdueItem{
			LoanID:        row.LoanID,
			MemberName:    row.MemberName,
			MemberEmail:   row.MemberEmail,
			BookTitle:     title,
			DueDate:       clock.Format(row.DueDate),
			DaysOverdue:   days,
			EstimatedFine: uc.policy.FineAmount(days),
		}
	}
	return items, nil
}
