package member

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 读者领域错误定义
var (
	ErrMemberNotFound = apperrors.New(apperrors.ErrCodeMemberNotFound, "读者不存在")
	ErrEmailDuplicate = apperrors.New(apperrors.ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrMemberInactive = apperrors.New(apperrors.ErrCodeMemberInactive, "读者已停用，不能借书")

	ErrInvalidEmail = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	ErrEmptyName    = apperrors.New(apperrors.ErrCodeInvalidParams, "姓名不能为空")
)
