package book

import "context"

// Cache 图书详情缓存(Cache-Aside)
// 库存变化(借出、归还、修改、删除)提交后必须Invalidate
type Cache interface {
	// Get 未命中返回(nil, nil)
	Get(ctx context.Context, id uint) (*Book, error)
	Set(ctx context.Context, book *Book) error
	Invalidate(ctx context.Context, ids ...uint) error
}

// NoopCache 未启用缓存时使用
type NoopCache struct{}

func (NoopCache) Get(context.Context, uint) (*Book, error)  { return nil, nil }
func (NoopCache) Set(context.Context, *Book) error          { return nil }
func (NoopCache) Invalidate(context.Context, ...uint) error { return nil }
