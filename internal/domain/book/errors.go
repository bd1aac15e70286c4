package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在")

	// ErrInvalidISBN ISBN格式不正确
	ErrInvalidISBN = apperrors.New(apperrors.ErrCodeInvalidParams, "ISBN必须为10位或13位数字")

	// ErrInvalidCopies 总册数为负
	ErrInvalidCopies = apperrors.New(apperrors.ErrCodeInvalidParams, "总册数不能为负数")

	// ErrEmptyField 书名或作者为空
	ErrEmptyField = apperrors.New(apperrors.ErrCodeInvalidParams, "书名和作者不能为空")

	// ErrBookInUse 图书仍有在借记录，不能删除
	ErrBookInUse = apperrors.New(apperrors.ErrCodeBookInUse, "图书仍有未归还的借阅，不能删除")
)
