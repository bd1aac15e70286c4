// Package handler HTTP处理器
// 只负责参数绑定、调用用例、输出统一响应，业务规则全部在应用层和领域层
package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	appbook "github.com/xiebiao/library/internal/application/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// bindError 参数绑定或校验失败
func bindError(c *gin.Context, err error) {
	response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
}

// pathID 解析路径中的ID，失败时已写入400响应
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, fmt.Sprintf("参数错误: 无效的%s", name))
		return 0, false
	}
	return uint(id), true
}

func isMultipart(c *gin.Context) bool {
	return c.ContentType() == binding.MIMEMultipartPOSTForm
}

// formUpload 读取multipart文件字段，字段不存在返回nil
func formUpload(c *gin.Context, field string) (*appbook.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &appbook.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
