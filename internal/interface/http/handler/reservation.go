package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application"
	appreservation "github.com/xiebiao/library/internal/application/reservation"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// ReservationHandler 预约HTTP处理器
type ReservationHandler struct {
	reserveUseCase          *appreservation.ReserveUseCase
	cancelUseCase           *appreservation.CancelUseCase
	listReservationsUseCase *appreservation.ListReservationsUseCase
}

// NewReservationHandler 创建预约处理器
func NewReservationHandler(
	reserveUseCase *appreservation.ReserveUseCase,
	cancelUseCase *appreservation.CancelUseCase,
	listReservationsUseCase *appreservation.ListReservationsUseCase,
) *ReservationHandler {
	return &ReservationHandler{
		reserveUseCase:          reserveUseCase,
		cancelUseCase:           cancelUseCase,
		listReservationsUseCase: listReservationsUseCase,
	}
}

// Reserve 预约图书
// @Summary      预约图书
// @Description  同一读者对同一本书只能有一条pending预约，不要求图书无库存
// @Tags         预约
// @Accept       json
// @Produce      json
// @Param        request body dto.ReserveRequest true "预约信息"
// @Success      201 {object} response.Response{data=appreservation.ReservationResponse}
// @Failure      400 {object} response.Response "重复预约"
// @Failure      404 {object} response.Response "图书或读者不存在"
// @Router       /reservations/reserve [post]
func (h *ReservationHandler) Reserve(c *gin.Context) {
	var req dto.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.reserveUseCase.Execute(c.Request.Context(), appreservation.ReserveRequest{
		MemberID: req.MemberID,
		BookID:   req.BookID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Cancel 取消预约
// @Summary      取消预约
// @Tags         预约
// @Param        id path int true "预约ID"
// @Success      204 "取消成功"
// @Failure      404 {object} response.Response "预约不存在"
// @Router       /reservations/{id} [delete]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.cancelUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListReservations 预约列表
// @Summary      预约列表
// @Tags         预约
// @Produce      json
// @Param        skip query int false "跳过条数" default(0)
// @Param        limit query int false "返回条数" default(100)
// @Param        member_id query int false "读者ID"
// @Param        book_id query int false "图书ID"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appreservation.ReservationResponse}}
// @Router       /reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	var q dto.ListReservationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.listReservationsUseCase.Execute(c.Request.Context(), appreservation.ListReservationsRequest{
		ListRequest: application.ListRequest{Skip: q.Skip, Limit: q.Limit},
		MemberID:    q.MemberID,
		BookID:      q.BookID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Skip, result.Limit)
}
