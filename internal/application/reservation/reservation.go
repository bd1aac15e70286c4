package reservation

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/transaction"
	"github.com/xiebiao/library/pkg/clock"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/tracing"
)

// ReservationResponse 预约响应
type ReservationResponse struct {
	ID              uint                        `json:"id"`
	MemberID        uint                        `json:"member_id"`
	BookID          uint                        `json:"book_id"`
	ReservationDate string                      `json:"reservation_date"`
	Status          string                      `json:"status"`
	Book            *application.BookResponse   `json:"book,omitempty"`
	Member          *application.MemberResponse `json:"member,omitempty"`
}

// NewReservationResponse 实体转响应
func NewReservationResponse(r *reservation.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:              r.ID,
		MemberID:        r.MemberID,
		BookID:          r.BookID,
		ReservationDate: clock.Format(r.ReservationDate),
		Status:          r.Status,
		Book:            application.NewBookResponse(r.Book),
		Member:          application.NewMemberResponse(r.Member),
	}
}

// ReserveUseCase 预约图书
// 预约只是借阅意向，不占用库存；同一读者同一本书最多一条pending预约
type ReserveUseCase struct {
	txManager       transaction.Manager
	bookRepo        book.Repository
	memberRepo      member.Repository
	reservationRepo reservation.Repository
	clock           clock.Clock
}

// NewReserveUseCase 创建预约用例
func NewReserveUseCase(
	txManager transaction.Manager,
	bookRepo book.Repository,
	memberRepo member.Repository,
	reservationRepo reservation.Repository,
	clk clock.Clock,
) *ReserveUseCase {
	return &ReserveUseCase{
		txManager:       txManager,
		bookRepo:        bookRepo,
		memberRepo:      memberRepo,
		reservationRepo: reservationRepo,
		clock:           clk,
	}
}

// ReserveRequest 预约请求
type ReserveRequest struct {
	MemberID uint
	BookID   uint
}

// Execute 执行预约
// 检查顺序: 图书存在 → 读者存在 → 无重复pending预约
func (uc *ReserveUseCase) Execute(ctx context.Context, req ReserveRequest) (resp *ReservationResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "ReserveUseCase.Execute")
	defer func() { application.Finish(span, "reserve", err) }()

	var created *reservation.Reservation
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		b, err := uc.bookRepo.FindByID(ctx, req.BookID)
		if err != nil {
			return err
		}
		// 锁读者行，串行化同一读者的并发预约
		m, err := uc.memberRepo.LockByID(ctx, req.MemberID)
		if err != nil {
			return err
		}

		exists, err := uc.reservationRepo.ExistsPending(ctx, req.MemberID, req.BookID)
		if err != nil {
			return err
		}
		if exists {
			return reservation.ErrDuplicateReservation
		}

		created = reservation.NewReservation(req.MemberID, req.BookID, uc.clock.Today())
		if err := uc.reservationRepo.Create(ctx, created); err != nil {
			return err
		}
		created.Book, created.Member = b, m
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info("预约成功",
		zap.Uint("reservation_id", created.ID),
		zap.Uint("member_id", req.MemberID),
		zap.Uint("book_id", req.BookID))

	full, err := uc.reservationRepo.FindByID(ctx, created.ID)
	if err != nil {
		// 预约已提交，重新查询失败时用内存中的实体响应
		logger.Ctx(ctx).Warn("预约已提交，重新查询失败", zap.Uint("reservation_id", created.ID), zap.Error(err))
		return NewReservationResponse(created), nil
	}
	return NewReservationResponse(full), nil
}

// CancelUseCase 取消预约(删除记录)
type CancelUseCase struct {
	reservationRepo reservation.Repository
}

func NewCancelUseCase(reservationRepo reservation.Repository) *CancelUseCase {
	return &CancelUseCase{reservationRepo: reservationRepo}
}

func (uc *CancelUseCase) Execute(ctx context.Context, id uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, "CancelUseCase.Execute")
	defer func() { application.Finish(span, "cancel_reservation", err) }()

	if err = uc.reservationRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Ctx(ctx).Info("预约已取消", zap.Uint("reservation_id", id))
	return nil
}

// ListReservationsUseCase 预约列表
type ListReservationsUseCase struct {
	reservationRepo reservation.Repository
}

func NewListReservationsUseCase(reservationRepo reservation.Repository) *ListReservationsUseCase {
	return &ListReservationsUseCase{reservationRepo: reservationRepo}
}

// ListReservationsRequest 列表请求
type ListReservationsRequest struct {
	application.ListRequest
	MemberID *uint
	BookID   *uint
}

// ListReservationsResponse 列表响应
type ListReservationsResponse = application.ListResponse[*ReservationResponse]

func (uc *ListReservationsUseCase) Execute(ctx context.Context, req ListReservationsRequest) (resp *ListReservationsResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "ListReservationsUseCase.Execute")
	defer func() { application.Finish(span, "list_reservations", err) }()

	page := req.ListRequest.Normalize()
	items, total, err := uc.reservationRepo.List(ctx, reservation.ListParams{
		Skip:     page.Skip,
		Limit:    page.Limit,
		MemberID: req.MemberID,
		BookID:   req.BookID,
	})
	if err != nil {
		return nil, err
	}

	list := make([]*ReservationResponse, len(items))
	for i, r := range items {
		list[i] = NewReservationResponse(r)
	}
	return &ListReservationsResponse{List: list, Total: total, Skip: page.Skip, Limit: page.Limit}, nil
}
