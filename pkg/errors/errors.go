package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不要直接暴露HTTP状态码）
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较
// 预定义错误是指针，WithMessage派生出的错误仍应与原错误相等
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Kind 错误分类（机器可读）
func (e *AppError) Kind() string {
	switch {
	case e.Code >= 50000:
		return KindTransient
	case e.Code >= 40900 && e.Code < 41000:
		return KindValidation
	case e.Code >= 40400 && e.Code < 40500:
		return KindNotFound
	case e.Code >= 40100 && e.Code < 40200:
		return KindUnauthorized
	default:
		return KindDomainRule
	}
}

// HTTPStatus 错误码 → HTTP状态码
func (e *AppError) HTTPStatus() int {
	switch e.Kind() {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindTransient:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// WithMessage 复制错误并替换提示信息（错误码不变）
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{Code: e.Code, Message: message, Err: e.Err}
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 将底层错误转换为Transient错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WrapCode 以指定错误码包装底层错误
func WrapCode(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 错误分类
const (
	KindNotFound     = "not_found"
	KindValidation   = "validation"
	KindDomainRule   = "domain_rule"
	KindTransient    = "transient"
	KindUnauthorized = "unauthorized"
)

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 400xx: 业务规则拒绝（DomainRule）
// - 404xx: 资源不存在（NotFound）
// - 409xx: 参数错误（Validation）
// - 5xxxx: 服务端错误（Transient，不重试）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
	ErrCodeStorageError  = 50003 // 对象存储错误

	ErrCodeUnauthorized = 40100 // 未认证

	// 资源错误（40400-40499）
	ErrCodeNotFound            = 40400 // 资源不存在(通用)
	ErrCodeMemberNotFound      = 40401 // 读者不存在
	ErrCodeBookNotFound        = 40402 // 图书不存在
	ErrCodeLoanNotFound        = 40403 // 借阅记录不存在
	ErrCodeReservationNotFound = 40404 // 预约不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError        = 40000 // 业务错误(通用)
	ErrCodeOutOfStock           = 40001 // 无可借副本
	ErrCodeEmailDuplicate       = 40003 // 邮箱已存在
	ErrCodeISBNDuplicate        = 40004 // ISBN已存在
	ErrCodeDuplicateEntry       = 40009 // 重复记录(通用)
	ErrCodeMemberInactive       = 40010 // 读者已停用
	ErrCodeLoanLimitExceeded    = 40011 // 超出借阅上限
	ErrCodeAlreadyReturned      = 40012 // 已归还
	ErrCodeBookInUse            = 40013 // 图书仍有在借记录
	ErrCodeInventoryUnderflow   = 40014 // 可借数量将为负
	ErrCodeDuplicateReservation = 40015 // 重复预约

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")
	ErrStorageError  = New(ErrCodeStorageError, "文件存储服务错误")

	ErrNotFound = New(ErrCodeNotFound, "资源不存在")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// HasCode 判断错误链中是否包含指定错误码
func HasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
