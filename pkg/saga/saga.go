// Package saga 按步骤执行并在失败时逆序补偿
//
// 用于跨越数据库事务边界的流程，例如先上传文件到对象存储，
// 再写数据库，写库失败时删除已上传的文件。
package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/pkg/metrics"
)

// Step Saga中的一个步骤
// Action和Compensate都可以为nil；Compensate必须幂等
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga 一次Saga执行
type Saga struct {
	name     string
	steps    []Step
	executed []Step
	timeout  time.Duration
}

// New 创建Saga，timeout<=0表示不限时
func New(name string, timeout time.Duration) *Saga {
	return &Saga{name: name, timeout: timeout}
}

// AddStep 追加步骤（按添加顺序执行，逆序补偿）
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) *Saga {
	s.steps = append(s.steps, Step{Name: name, Action: action, Compensate: compensate})
	return s
}

// Execute 执行全部步骤
// 任一步骤失败或超时时补偿已完成的步骤，返回的错误保留原始错误链
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		if err := ctx.Err(); err != nil {
			s.compensate(context.WithoutCancel(ctx))
			metrics.SagaExecuted(false)
			return fmt.Errorf("saga[%s]超时: %w", s.name, err)
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				cerr := s.compensate(context.WithoutCancel(ctx))
				metrics.SagaExecuted(false)
				if cerr != nil {
					return errors.Join(fmt.Errorf("saga[%s]步骤[%d:%s]执行失败: %w", s.name, i, step.Name, err), cerr)
				}
				return fmt.Errorf("saga[%s]步骤[%d:%s]执行失败: %w", s.name, i, step.Name, err)
			}
		}
		s.executed = append(s.executed, step)
	}

	metrics.SagaExecuted(true)
	return nil
}

// compensate 逆序补偿，单个补偿失败不影响其余补偿
func (s *Saga) compensate(ctx context.Context) error {
	var errs []error
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}
		metrics.SagaCompensated()
		if err := step.Compensate(ctx); err != nil {
			zap.L().Error("saga补偿失败",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("补偿[%s]失败: %w", step.Name, err))
		}
	}
	s.executed = nil
	return errors.Join(errs...)
}
