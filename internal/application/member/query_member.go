package member

import (
	"context"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/pkg/tracing"
)

// GetMemberUseCase 读者详情
type GetMemberUseCase struct {
	memberService member.Service
}

func NewGetMemberUseCase(memberService member.Service) *GetMemberUseCase {
	return &GetMemberUseCase{memberService: memberService}
}

func (uc *GetMemberUseCase) Execute(ctx context.Context, id uint) (resp *application.MemberResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "GetMemberUseCase.Execute")
	defer func() { application.Finish(span, "get_member", err) }()

	m, err := uc.memberService.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return application.NewMemberResponse(m), nil
}

// ListMembersUseCase 读者列表，关键词匹配姓名或邮箱
type ListMembersUseCase struct {
	memberService member.Service
}

func NewListMembersUseCase(memberService member.Service) *ListMembersUseCase {
	return &ListMembersUseCase{memberService: memberService}
}

// ListMembersRequest 列表请求
type ListMembersRequest struct {
	application.ListRequest
	Query string
}

// ListMembersResponse 列表响应
type ListMembersResponse = application.ListResponse[*application.MemberResponse]

func (uc *ListMembersUseCase) Execute(ctx context.Context, req ListMembersRequest) (resp *ListMembersResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "ListMembersUseCase.Execute")
	defer func() { application.Finish(span, "list_members", err) }()

	page := req.ListRequest.Normalize()
	members, total, err := uc.memberService.List(ctx, member.ListParams{
		Skip:  page.Skip,
		Limit: page.Limit,
		Query: req.Query,
	})
	if err != nil {
		return nil, err
	}

	return &ListMembersResponse{
		List:  application.NewMemberResponses(members),
		Total: total,
		Skip:  page.Skip,
		Limit: page.Limit,
	}, nil
}
