package book

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/asset"
	"github.com/xiebiao/library/pkg/saga"
)

// sagaTimeout 上传+落库的整体超时
const sagaTimeout = 2 * time.Minute

// Upload 请求中携带的文件
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// addUploadStep 追加上传步骤，成功后把公开URL写入target
// 后续步骤失败时删除已上传的对象
func addUploadStep(sg *saga.Saga, store asset.Store, name, prefix string, up *Upload, target **string) {
	objectPath := asset.NewObjectPath(prefix, up.Filename)
	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	sg.AddStep(name,
		func(ctx context.Context) error {
			url, err := store.Upload(ctx, asset.Object{
				Path:        objectPath,
				ContentType: contentType,
				Data:        up.Data,
			})
			if err != nil {
				return err
			}
			*target = &url
			return nil
		},
		func(ctx context.Context) error {
			return store.Delete(ctx, objectPath)
		},
	)
}
