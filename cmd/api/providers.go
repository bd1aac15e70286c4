package main

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/asset"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/event"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/infrastructure/storage/supabase"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/clock"
	"github.com/xiebiao/library/pkg/mq"
)

// App 装配完成的应用
type App struct {
	Engine *gin.Engine
	DB     *gorm.DB
}

// ========================================
// Custom Providers
// ========================================
// 这些依赖需要从Config中提取参数，或者按开关返回不同实现

// provideDB 数据库连接，cleanup关闭连接池
func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := gormdb.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if err := gormdb.Close(db); err != nil {
			zap.L().Warn("关闭数据库连接失败", zap.Error(err))
		}
	}, nil
}

// provideBookCache redis.enabled=false时不使用缓存
func provideBookCache(cfg *config.Config) (book.Cache, func(), error) {
	if !cfg.Redis.Enabled {
		return book.NoopCache{}, func() {}, nil
	}
	client, err := redis.NewClient(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return redis.NewBookCache(client, cfg.Redis.BookTTL), func() {
		_ = client.Close()
	}, nil
}

// provideAssetStore 未配置存储时返回nil，请求上传会得到参数错误
func provideAssetStore(cfg *config.Config) (asset.Store, error) {
	if !cfg.Storage.Enabled() {
		zap.L().Info("未配置对象存储，文件上传不可用")
		return nil, nil
	}
	client, err := supabase.New(supabase.Config{
		ProjectURL: cfg.Storage.URL,
		APIKey:     cfg.Storage.Key,
		Bucket:     cfg.Storage.Bucket,
		Timeout:    cfg.Storage.Timeout,
	})
	if err != nil {
		return nil, err
	}
	breaker := circuitbreaker.New("supabase-storage", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// 4xx是请求本身的问题，不代表存储服务不可用
		IsSuccessful: func(err error) bool {
			var statusErr *supabase.StatusError
			if errors.As(err, &statusErr) {
				return statusErr.Status < 500
			}
			return err == nil
		},
	})
	return supabase.NewStore(client, breaker), nil
}

// provideEventPublisher mq.enabled=false时丢弃事件
func provideEventPublisher(cfg *config.Config) (event.Publisher, func(), error) {
	if !cfg.MQ.Enabled {
		return event.NoopPublisher{}, func() {}, nil
	}
	broker, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		return nil, nil, err
	}
	return messaging.NewEventPublisher(broker), func() {
		_ = broker.Close()
	}, nil
}

func provideClock() clock.Clock {
	return clock.System
}

func providePolicy(cfg *config.Config) loan.Policy {
	return cfg.Library.Policy()
}
