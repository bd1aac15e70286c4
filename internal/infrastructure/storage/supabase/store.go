package supabase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/asset"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Store 实现asset.Store，所有调用经过熔断器
type Store struct {
	client  *Client
	breaker *circuitbreaker.CircuitBreaker
}

// NewStore 创建对象存储
func NewStore(client *Client, breaker *circuitbreaker.CircuitBreaker) *Store {
	if breaker == nil {
		breaker = circuitbreaker.New("supabase-storage", circuitbreaker.Config{})
	}
	return &Store{client: client, breaker: breaker}
}

var _ asset.Store = (*Store)(nil)

// Upload 上传并返回公开URL
func (s *Store) Upload(ctx context.Context, obj asset.Object) (string, error) {
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.client.Upload(ctx, obj.Path, obj.ContentType, obj.Data)
	})
	if err != nil {
		zap.L().Error("上传文件失败", zap.String("path", obj.Path), zap.Error(err))
		return "", apperrors.WrapCode(err, apperrors.ErrCodeStorageError, "上传文件失败")
	}
	return s.client.PublicURL(obj.Path), nil
}

// Delete 删除对象
func (s *Store) Delete(ctx context.Context, objectPath string) error {
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.client.Remove(ctx, objectPath)
	})
	if err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeStorageError, "删除文件失败")
	}
	return nil
}
