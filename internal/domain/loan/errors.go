package loan

import (
	"fmt"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借阅领域错误定义
var (
	ErrLoanNotFound      = apperrors.New(apperrors.ErrCodeLoanNotFound, "借阅记录不存在")
	ErrAlreadyReturned   = apperrors.New(apperrors.ErrCodeAlreadyReturned, "该借阅已归还")
	ErrLoanLimitExceeded = apperrors.New(apperrors.ErrCodeLoanLimitExceeded, "已达到最大在借数量")
	ErrInvalidDays       = apperrors.New(apperrors.ErrCodeInvalidParams, "借期超出允许范围")
	ErrInvalidStatus     = apperrors.New(apperrors.ErrCodeInvalidParams, "未知的借阅状态")
)

// LimitExceeded 带上限数值的错误提示
func LimitExceeded(max int) error {
	return ErrLoanLimitExceeded.WithMessage(fmt.Sprintf("每位读者最多同时借阅%d本", max))
}

// InvalidDays 带范围的错误提示
func InvalidDays(max int) error {
	return ErrInvalidDays.WithMessage(fmt.Sprintf("借期必须在1到%d天之间", max))
}
