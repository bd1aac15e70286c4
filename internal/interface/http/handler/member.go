package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application"
	appmember "github.com/xiebiao/library/internal/application/member"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// MemberHandler 读者HTTP处理器
type MemberHandler struct {
	createMemberUseCase    *appmember.CreateMemberUseCase
	getMemberUseCase       *appmember.GetMemberUseCase
	listMembersUseCase     *appmember.ListMembersUseCase
	updateMemberUseCase    *appmember.UpdateMemberUseCase
	setMemberStatusUseCase *appmember.SetMemberStatusUseCase
}

// NewMemberHandler 创建读者处理器
func NewMemberHandler(
	createMemberUseCase *appmember.CreateMemberUseCase,
	getMemberUseCase *appmember.GetMemberUseCase,
	listMembersUseCase *appmember.ListMembersUseCase,
	updateMemberUseCase *appmember.UpdateMemberUseCase,
	setMemberStatusUseCase *appmember.SetMemberStatusUseCase,
) *MemberHandler {
	return &MemberHandler{
		createMemberUseCase:    createMemberUseCase,
		getMemberUseCase:       getMemberUseCase,
		listMembersUseCase:     listMembersUseCase,
		updateMemberUseCase:    updateMemberUseCase,
		setMemberStatusUseCase: setMemberStatusUseCase,
	}
}

// CreateMember 读者注册
// @Summary      读者注册
// @Description  邮箱全局唯一，注册日期为当天
// @Tags         读者
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateMemberRequest true "读者信息"
// @Success      201 {object} response.Response{data=application.MemberResponse}
// @Failure      400 {object} response.Response "参数错误/邮箱已存在"
// @Router       /members [post]
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.createMemberUseCase.Execute(c.Request.Context(), appmember.CreateMemberRequest{
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// GetMember 读者详情
// @Summary      读者详情
// @Tags         读者
// @Produce      json
// @Param        id path int true "读者ID"
// @Success      200 {object} response.Response{data=application.MemberResponse}
// @Failure      404 {object} response.Response "读者不存在"
// @Router       /members/{id} [get]
func (h *MemberHandler) GetMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.getMemberUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListMembers 读者列表
// @Summary      读者列表
// @Description  q按姓名或邮箱模糊匹配
// @Tags         读者
// @Produce      json
// @Param        skip query int false "跳过条数" default(0)
// @Param        limit query int false "返回条数" default(100)
// @Param        q query string false "关键字"
// @Success      200 {object} response.Response{data=response.PageData{list=[]application.MemberResponse}}
// @Router       /members [get]
func (h *MemberHandler) ListMembers(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.listMembersUseCase.Execute(c.Request.Context(), appmember.ListMembersRequest{
		ListRequest: application.ListRequest{Skip: q.Skip, Limit: q.Limit},
		Query:       q.Q,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Skip, result.Limit)
}

// UpdateMember 修改读者信息
// @Summary      修改读者信息
// @Tags         读者
// @Accept       json
// @Produce      json
// @Param        id path int true "读者ID"
// @Param        request body dto.UpdateMemberRequest true "修改内容"
// @Success      200 {object} response.Response{data=application.MemberResponse}
// @Failure      404 {object} response.Response "读者不存在"
// @Router       /members/{id} [put]
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.updateMemberUseCase.Execute(c.Request.Context(), appmember.UpdateMemberRequest{
		ID:       id,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SetMemberStatus 启用/停用读者
// @Summary      启用/停用读者
// @Description  停用的读者不能借书
// @Tags         读者
// @Accept       json
// @Produce      json
// @Param        id path int true "读者ID"
// @Param        request body dto.MemberStatusRequest true "状态"
// @Success      200 {object} response.Response{data=application.MemberResponse}
// @Failure      404 {object} response.Response "读者不存在"
// @Router       /members/{id}/status [put]
func (h *MemberHandler) SetMemberStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.MemberStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.setMemberStatusUseCase.Execute(c.Request.Context(), appmember.SetMemberStatusRequest{
		ID:       id,
		IsActive: *req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
