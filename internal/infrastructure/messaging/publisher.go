// Package messaging 领域事件发布到RabbitMQ
package messaging

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/event"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
)

// Broker 消息发布能力（*mq.Publisher）
type Broker interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// EventPublisher 事件名即routing_key
// 事务已提交，发布失败只记日志和指标
type EventPublisher struct {
	broker  Broker
	timeout time.Duration
}

// NewEventPublisher 创建事件发布者
func NewEventPublisher(broker Broker) *EventPublisher {
	return &EventPublisher{broker: broker, timeout: 3 * time.Second}
}

var _ event.Publisher = (*EventPublisher)(nil)

// Publish 发布事件
// 请求可能已结束，使用脱离取消的context并加超时
func (p *EventPublisher) Publish(ctx context.Context, e event.Event) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	err := p.broker.Publish(pubCtx, e.Name, e)
	metrics.MessagePublished(e.Name, err)
	if err != nil {
		logger.Ctx(ctx).Warn("发布领域事件失败", zap.String("event", e.Name), zap.Error(err))
		return
	}
	logger.Ctx(ctx).Debug("发布领域事件", zap.String("event", e.Name))
}
