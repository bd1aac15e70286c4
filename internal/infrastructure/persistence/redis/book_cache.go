package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// BookCache 图书详情缓存（Cache-Aside）
// 先查缓存，未命中再查数据库并回填；库存变化提交后删除缓存而不是更新
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBookCache 创建图书缓存
func NewBookCache(client *redis.Client, ttl time.Duration) *BookCache {
	return &BookCache{client: client, ttl: ttl}
}

var _ book.Cache = (*BookCache)(nil)

// Get 未命中返回(nil, nil)
func (c *BookCache) Get(ctx context.Context, id uint) (*book.Book, error) {
	val, err := c.client.Get(ctx, bookKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "读取图书缓存失败")
	}
	return decodeBook(val)
}

// Set 写入缓存并设置过期时间
func (c *BookCache) Set(ctx context.Context, b *book.Book) error {
	val, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}
	if err := c.client.Set(ctx, bookKey(b.ID), val, c.ttl).Err(); err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "写入图书缓存失败")
	}
	return nil
}

// Invalidate 删除缓存
func (c *BookCache) Invalidate(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = bookKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "删除图书缓存失败")
	}
	return nil
}

func bookKey(id uint) string {
	return fmt.Sprintf("library:book:%d", id)
}

func decodeBook(val []byte) (*book.Book, error) {
	var b book.Book
	if err := json.Unmarshal(val, &b); err != nil {
		return nil, fmt.Errorf("反序列化失败: %w", err)
	}
	return &b, nil
}
