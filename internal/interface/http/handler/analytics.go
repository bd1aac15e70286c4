package handler

import (
	"github.com/gin-gonic/gin"

	appanalytics "github.com/xiebiao/library/internal/application/analytics"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// AnalyticsHandler 统计HTTP处理器
type AnalyticsHandler struct {
	dashboardUseCase   *appanalytics.DashboardUseCase
	topBooksUseCase    *appanalytics.TopBooksUseCase
	overdueListUseCase *appanalytics.OverdueListUseCase
}

// NewAnalyticsHandler 创建统计处理器
func NewAnalyticsHandler(
	dashboardUseCase *appanalytics.DashboardUseCase,
	topBooksUseCase *appanalytics.TopBooksUseCase,
	overdueListUseCase *appanalytics.OverdueListUseCase,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		dashboardUseCase:   dashboardUseCase,
		topBooksUseCase:    topBooksUseCase,
		overdueListUseCase: overdueListUseCase,
	}
}

// Dashboard 概览
// @Summary      概览
// @Description  图书数、读者数、在借数、逾期数、待缴罚款数
// @Tags         统计
// @Produce      json
// @Success      200 {object} response.Response{data=analytics.Dashboard}
// @Router       /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	result, err := h.dashboardUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// TopBooks 热门图书
// @Summary      热门图书
// @Tags         统计
// @Produce      json
// @Param        limit query int false "返回条数" default(5)
// @Success      200 {object} response.Response{data=[]analytics.TopBook}
// @Router       /analytics/top-books [get]
func (h *AnalyticsHandler) TopBooks(c *gin.Context) {
	var q dto.TopBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.topBooksUseCase.Execute(c.Request.Context(), q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// OverdueList 逾期清单
// @Summary      逾期清单
// @Description  按应还日升序，附逾期天数和预估罚款
// @Tags         统计
// @Produce      json
// @Success      200 {object} response.Response{data=[]appanalytics.OverdueItem}
// @Router       /analytics/overdue-list [get]
func (h *AnalyticsHandler) OverdueList(c *gin.Context) {
	result, err := h.overdueListUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
