package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
)

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码，0表示成功
// 2. Kind是错误分类（not_found/validation/domain_rule/transient），成功时省略
// 3. Data是业务数据，失败时为null
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Kind    string      `json:"kind,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 200响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 201响应（创建类接口）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// NoContent 204响应（删除类接口，无响应体）
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应（自动处理AppError）
// HTTP状态码由错误码区间决定：404xx→404，5xxxx→500，其余4xxxx→400
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	// 内部错误只记日志，不返回给客户端
	if appErr.Err != nil || appErr.Kind() == apperrors.KindTransient {
		logger.Ctx(c.Request.Context()).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("code", appErr.Code),
			zap.Error(err))
	}

	c.JSON(appErr.HTTPStatus(), Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Kind:    appErr.Kind(),
	})
}

// ErrorWithCode 自定义错误码和消息（用于参数绑定失败等场景）
func ErrorWithCode(c *gin.Context, code int, message string) {
	Error(c, apperrors.New(code, message))
}

// =========================================
// 分页响应结构
// =========================================

// PageData 分页数据封装（skip/limit风格）
type PageData struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Skip  int         `json:"skip"`
	Limit int         `json:"limit"`
}

// NewPageData 创建分页数据
func NewPageData(list interface{}, total int64, skip, limit int) *PageData {
	return &PageData{
		List:  list,
		Total: total,
		Skip:  skip,
		Limit: limit,
	}
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, skip, limit int) {
	Success(c, NewPageData(list, total, skip, limit))
}
