// Package asset 图书PDF与封面的对象存储抽象
package asset

import (
	"context"
	"path"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 对象路径前缀
const (
	PrefixPDF   = "pdfs"
	PrefixCover = "covers"
)

// ErrStoreDisabled 请求上传但未配置对象存储
var ErrStoreDisabled = apperrors.New(apperrors.ErrCodeInvalidParams, "未配置对象存储，不能上传文件")

// Object 待上传对象
type Object struct {
	Path        string
	ContentType string
	Data        []byte
}

// Store 对象存储
type Store interface {
	// Upload 上传并返回公开访问URL
	Upload(ctx context.Context, obj Object) (string, error)

	// Delete 删除对象（用于补偿）
	Delete(ctx context.Context, objectPath string) error
}

// NewObjectPath 生成 <prefix>/<uuid><ext>，扩展名取自原文件名
func NewObjectPath(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return prefix + "/" + uuid.NewString() + ext
}
