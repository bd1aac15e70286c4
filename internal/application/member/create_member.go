package member

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/pkg/clock"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/tracing"
)

// CreateMemberUseCase 登记读者
type CreateMemberUseCase struct {
	memberService member.Service
	clock         clock.Clock
}

// NewCreateMemberUseCase 创建登记用例
func NewCreateMemberUseCase(memberService member.Service, clk clock.Clock) *CreateMemberUseCase {
	return &CreateMemberUseCase{memberService: memberService, clock: clk}
}

// CreateMemberRequest 登记请求
type CreateMemberRequest struct {
	Email    string
	FullName string
	Phone    *string
}

// Execute 执行登记，邮箱重复返回ErrEmailDuplicate
func (uc *CreateMemberUseCase) Execute(ctx context.Context, req CreateMemberRequest) (resp *application.MemberResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "CreateMemberUseCase.Execute")
	defer func() { application.Finish(span, "create_member", err) }()

	m, err := uc.memberService.Register(ctx, member.RegisterParams{
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		Today:    uc.clock.Today(),
	})
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info("读者已登记", zap.Uint("member_id", m.ID))
	return application.NewMemberResponse(m), nil
}
