package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application"
	apploan "github.com/xiebiao/library/internal/application/loan"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// LoanHandler 借阅HTTP处理器
type LoanHandler struct {
	borrowUseCase      *apploan.BorrowUseCase
	returnUseCase      *apploan.ReturnUseCase
	listLoansUseCase   *apploan.ListLoansUseCase
	checkAccessUseCase *apploan.CheckAccessUseCase
}

// NewLoanHandler 创建借阅处理器
func NewLoanHandler(
	borrowUseCase *apploan.BorrowUseCase,
	returnUseCase *apploan.ReturnUseCase,
	listLoansUseCase *apploan.ListLoansUseCase,
	checkAccessUseCase *apploan.CheckAccessUseCase,
) *LoanHandler {
	return &LoanHandler{
		borrowUseCase:      borrowUseCase,
		returnUseCase:      returnUseCase,
		listLoansUseCase:   listLoansUseCase,
		checkAccessUseCase: checkAccessUseCase,
	}
}

// Borrow 借书
// @Summary      借书
// @Description  在一个事务内锁定图书和读者，依次检查：有可借副本、读者已启用、未超借阅上限、借期合法
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Param        request body dto.BorrowRequest true "借书信息"
// @Success      201 {object} response.Response{data=apploan.LoanResponse}
// @Failure      400 {object} response.Response "无可借副本/读者已停用/超出借阅上限/借期无效"
// @Failure      404 {object} response.Response "图书或读者不存在"
// @Router       /loans/borrow [post]
func (h *LoanHandler) Borrow(c *gin.Context) {
	var req dto.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.borrowUseCase.Execute(c.Request.Context(), apploan.BorrowRequest{
		MemberID: req.MemberID,
		BookID:   req.BookID,
		Days:     req.Days,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Return 还书
// @Summary      还书
// @Description  逾期归还按天生成罚款；重复归还返回400且不做修改
// @Tags         借阅
// @Produce      json
// @Param        id path int true "借阅ID"
// @Success      200 {object} response.Response{data=apploan.LoanResponse}
// @Failure      400 {object} response.Response "已归还"
// @Failure      404 {object} response.Response "借阅记录不存在"
// @Router       /loans/return/{id} [post]
func (h *LoanHandler) Return(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.returnUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListLoans 借阅列表
// @Summary      借阅列表
// @Tags         借阅
// @Produce      json
// @Param        skip query int false "跳过条数" default(0)
// @Param        limit query int false "返回条数" default(100)
// @Param        member_id query int false "读者ID"
// @Param        book_id query int false "图书ID"
// @Param        status query string false "ACTIVE | RETURNED | OVERDUE"
// @Success      200 {object} response.Response{data=response.PageData{list=[]apploan.LoanResponse}}
// @Failure      400 {object} response.Response "状态无效"
// @Router       /loans [get]
func (h *LoanHandler) ListLoans(c *gin.Context) {
	var q dto.ListLoansQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.listLoansUseCase.Execute(c.Request.Context(), apploan.ListLoansRequest{
		ListRequest: application.ListRequest{Skip: q.Skip, Limit: q.Limit},
		MemberID:    q.MemberID,
		BookID:      q.BookID,
		Status:      q.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Skip, result.Limit)
}

// CheckAccess 是否持有在借记录
// @Summary      借阅权限
// @Description  读者当前借着这本书时has_access为true
// @Tags         借阅
// @Produce      json
// @Param        book_id query int true "图书ID"
// @Param        member_id query int true "读者ID"
// @Success      200 {object} response.Response{data=apploan.CheckAccessResponse}
// @Router       /loans/check-access [get]
func (h *LoanHandler) CheckAccess(c *gin.Context) {
	var q dto.CheckAccessQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.checkAccessUseCase.Execute(c.Request.Context(), apploan.CheckAccessRequest{
		MemberID: q.MemberID,
		BookID:   q.BookID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
