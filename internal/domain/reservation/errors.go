package reservation

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	ErrReservationNotFound  = apperrors.New(apperrors.ErrCodeReservationNotFound, "预约不存在")
	ErrDuplicateReservation = apperrors.New(apperrors.ErrCodeDuplicateReservation, "该读者已预约这本书")
)
