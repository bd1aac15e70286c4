package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/reservation"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// reservationRepository 预约仓储实现
type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository 创建预约仓储
func NewReservationRepository(db *gorm.DB) reservation.Repository {
	return &reservationRepository{db: db}
}

// Create pending部分唯一索引冲突转换为ErrDuplicateReservation
func (r *reservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	model := &ReservationModel{
		MemberID:        res.MemberID,
		BookID:          res.BookID,
		ReservationDate: res.ReservationDate,
		Status:          res.Status,
	}
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return reservation.ErrDuplicateReservation
		}
		return apperrors.Wrap(err, "创建预约失败")
	}
	res.ID = model.ID
	res.CreatedAt = model.CreatedAt
	return nil
}

func (r *reservationRepository) ExistsPending(ctx context.Context, memberID, bookID uint) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&ReservationModel{}).
		Where("member_id = ? AND book_id = ? AND status = ?", memberID, bookID, reservation.StatusPending).
		Count(&n).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询预约失败")
	}
	return n > 0, nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uint) (*reservation.Reservation, error) {
	var model ReservationModel
	err := conn(ctx, r.db).Preload("Book").Preload("Member").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, apperrors.Wrap(err, "查询预约失败")
	}
	return toReservationEntity(&model), nil
}

func (r *reservationRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&ReservationModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "取消预约失败")
	}
	if result.RowsAffected == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

// DeleteByBook 与外键ON DELETE CASCADE效果一致，未启用外键的库也成立
func (r *reservationRepository) DeleteByBook(ctx context.Context, bookID uint) (int64, error) {
	result := conn(ctx, r.db).Where("book_id = ?", bookID).Delete(&ReservationModel{})
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "删除图书预约失败")
	}
	return result.RowsAffected, nil
}

func (r *reservationRepository) List(ctx context.Context, params reservation.ListParams) ([]*reservation.Reservation, int64, error) {
	query := conn(ctx, r.db).Model(&ReservationModel{})
	if params.MemberID != nil {
		query = query.Where("member_id = ?", *params.MemberID)
	}
	if params.BookID != nil {
		query = query.Where("book_id = ?", *params.BookID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询预约总数失败")
	}

	var models []ReservationModel
	err := query.Preload("Book").Preload("Member").
		Order("id DESC").
		Scopes(paginate(params.Skip, params.Limit)).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询预约列表失败")
	}

	list := make([]*reservation.Reservation, len(models))
	for i := range models {
		list[i] = toReservationEntity(&models[i])
	}
	return list, total, nil
}

func toReservationEntity(model *ReservationModel) *reservation.Reservation {
	return &reservation.Reservation{
		ID:              model.ID,
		MemberID:        model.MemberID,
		BookID:          model.BookID,
		ReservationDate: model.ReservationDate.UTC(),
		Status:          model.Status,
		CreatedAt:       model.CreatedAt,
		Book:            toBookEntity(model.Book),
		Member:          toMemberEntity(model.Member),
	}
}
