package member

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/tracing"
)

// UpdateMemberUseCase 修改读者姓名、电话
type UpdateMemberUseCase struct {
	txManager     transaction.Manager
	memberService member.Service
}

func NewUpdateMemberUseCase(txManager transaction.Manager, memberService member.Service) *UpdateMemberUseCase {
	return &UpdateMemberUseCase{txManager: txManager, memberService: memberService}
}

// UpdateMemberRequest nil字段不修改；Phone为空串时清除电话
type UpdateMemberRequest struct {
	ID       uint
	FullName *string
	Phone    *string
}

func (uc *UpdateMemberUseCase) Execute(ctx context.Context, req UpdateMemberRequest) (resp *application.MemberResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "UpdateMemberUseCase.Execute")
	defer func() { application.Finish(span, "update_member", err) }()

	var m *member.Member
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		m, err = uc.memberService.Update(ctx, req.ID, member.UpdateParams{
			FullName: req.FullName,
			Phone:    req.Phone,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return application.NewMemberResponse(m), nil
}

// SetMemberStatusUseCase 启用/停用读者
// 停用的读者不能借书，已借的书仍可归还
type SetMemberStatusUseCase struct {
	txManager     transaction.Manager
	memberService member.Service
}

func NewSetMemberStatusUseCase(txManager transaction.Manager, memberService member.Service) *SetMemberStatusUseCase {
	return &SetMemberStatusUseCase{txManager: txManager, memberService: memberService}
}

// SetMemberStatusRequest 状态请求
type SetMemberStatusRequest struct {
	ID       uint
	IsActive bool
}

func (uc *SetMemberStatusUseCase) Execute(ctx context.Context, req SetMemberStatusRequest) (resp *application.MemberResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "SetMemberStatusUseCase.Execute")
	defer func() { application.Finish(span, "set_member_status", err) }()

	var m *member.Member
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		m, err = uc.memberService.SetActive(ctx, req.ID, req.IsActive)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info("读者状态已修改",
		zap.Uint("member_id", m.ID),
		zap.Bool("is_active", m.IsActive))
	return application.NewMemberResponse(m), nil
}
