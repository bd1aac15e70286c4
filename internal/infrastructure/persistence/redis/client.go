// Package redis 图书详情缓存
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// NewClient 连接Redis并Ping一次，失败时关闭客户端
// 缓存只在redis.enabled=true时创建，连不上直接启动失败，避免静默回源
func NewClient(rc config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         rc.Addr(),
		Password:     rc.Password,
		DB:           rc.DB,
		PoolSize:     rc.PoolSize,
		MinIdleConns: rc.MinIdleConns,
		DialTimeout:  rc.DialTimeout,
		ReadTimeout:  rc.ReadTimeout,
		WriteTimeout: rc.WriteTimeout,
	})

	timeout := rc.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("Redis连接失败(%s): %w", rc.Addr(), err)
	}

	zap.L().Info("Redis连接成功", zap.String("addr", rc.Addr()), zap.Int("db", rc.DB))
	return client, nil
}
