package loan

import (
	"context"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/clock"
	"github.com/xiebiao/library/pkg/tracing"
)

// ListLoansUseCase 借阅列表
// 每行带图书(可能已删除)、读者、罚款，按ID降序
type ListLoansUseCase struct {
	loanRepo loan.Repository
	clock    clock.Clock
}

func NewListLoansUseCase(loanRepo loan.Repository, clk clock.Clock) *ListLoansUseCase {
	return &ListLoansUseCase{loanRepo: loanRepo, clock: clk}
}

// ListLoansRequest 列表请求
type ListLoansRequest struct {
	application.ListRequest
	MemberID *uint
	BookID   *uint
	Status   string // ACTIVE|RETURNED|OVERDUE，空串不过滤
}

// ListLoansResponse 列表响应
type ListLoansResponse = application.ListResponse[*LoanResponse]

func (uc *ListLoansUseCase) Execute(ctx context.Context, req ListLoansRequest) (resp *ListLoansResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "ListLoansUseCase.Execute")
	defer func() { application.Finish(span, "list_loans", err) }()

	status, err := loan.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	today := uc.clock.Today()
	page := req.ListRequest.Normalize()
	loans, total, err := uc.loanRepo.List(ctx, loan.ListParams{
		Skip:     page.Skip,
		Limit:    page.Limit,
		MemberID: req.MemberID,
		BookID:   req.BookID,
		Status:   status,
		Today:    today,
	})
	if err != nil {
		return nil, err
	}

	list := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		list[i] = NewLoanResponse(l, today)
	}
	return &ListLoansResponse{List: list, Total: total, Skip: page.Skip, Limit: page.Limit}, nil
}

// CheckAccessUseCase 读者当前是否借着某本书(用于在线阅读PDF授权)
type CheckAccessUseCase struct {
	loanRepo loan.Repository
}

func NewCheckAccessUseCase(loanRepo loan.Repository) *CheckAccessUseCase {
	return &CheckAccessUseCase{loanRepo: loanRepo}
}

// CheckAccessRequest 查询请求
type CheckAccessRequest struct {
	MemberID uint
	BookID   uint
}

// CheckAccessResponse 查询结果
type CheckAccessResponse struct {
	HasAccess bool `json:"has_access"`
}

func (uc *CheckAccessUseCase) Execute(ctx context.Context, req CheckAccessRequest) (resp *CheckAccessResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "CheckAccessUseCase.Execute")
	defer func() { application.Finish(span, "check_access", err) }()

	ok, err := uc.loanRepo.ExistsActive(ctx, req.MemberID, req.BookID)
	if err != nil {
		return nil, err
	}
	return &CheckAccessResponse{HasAccess: ok}, nil
}
