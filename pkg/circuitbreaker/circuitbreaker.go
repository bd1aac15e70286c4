// Package circuitbreaker 熔断器，保护对外部服务（对象存储等）的调用
//
// 状态机：CLOSED → (ReadyToTrip) → OPEN → (Timeout) → HALF_OPEN → 成功CLOSED / 失败OPEN
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/xiebiao/library/pkg/metrics"
)

// State 熔断器状态
type State int

const (
	StateClosed   State = iota // 正常放行
	StateOpen                  // 快速失败
	StateHalfOpen              // 放行少量探测请求
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Config 熔断器配置
type Config struct {
	MaxRequests uint32        // 半开状态允许的探测请求数，0按1处理
	Interval    time.Duration // CLOSED状态统计窗口，0表示不重置
	Timeout     time.Duration // OPEN状态持续时间，0按60秒处理

	// ReadyToTrip 根据统计判断是否熔断，nil时连续失败5次熔断
	ReadyToTrip func(counts Counts) bool

	// IsSuccessful 判断调用结果是否计为成功，nil时仅err==nil为成功
	// 例如对象不存在属于业务结果，不应触发熔断
	IsSuccessful func(err error) bool
}

// Counts 统计数据
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// FailureRate 失败率
func (c Counts) FailureRate() float64 {
	if c.Requests == 0 {
		return 0
	}
	return float64(c.TotalFailures) / float64(c.Requests)
}

func (c *Counts) success() {
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) failure() {
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// ErrOpenState 熔断器打开（或半开且探测名额已满）
var ErrOpenState = errors.New("circuit breaker is open")

// CircuitBreaker 熔断器
type CircuitBreaker struct {
	name         string
	maxRequests  uint32
	interval     time.Duration
	timeout      time.Duration
	readyToTrip  func(Counts) bool
	isSuccessful func(error) bool

	mu         sync.Mutex
	state      State
	generation uint64
	counts     Counts
	expiry     time.Time
	now        func() time.Time

	onStateChange func(name string, from, to State)
}

// New 创建熔断器
func New(name string, cfg Config) *CircuitBreaker {
	cb := &CircuitBreaker{
		name:         name,
		maxRequests:  cfg.MaxRequests,
		interval:     cfg.Interval,
		timeout:      cfg.Timeout,
		readyToTrip:  cfg.ReadyToTrip,
		isSuccessful: cfg.IsSuccessful,
		now:          time.Now,
	}
	if cb.maxRequests == 0 {
		cb.maxRequests = 1
	}
	if cb.timeout <= 0 {
		cb.timeout = 60 * time.Second
	}
	if cb.readyToTrip == nil {
		cb.readyToTrip = func(c Counts) bool { return c.ConsecutiveFailures >= 5 }
	}
	if cb.isSuccessful == nil {
		cb.isSuccessful = func(err error) bool { return err == nil }
	}
	cb.toNewGeneration(cb.now())
	metrics.BreakerState(name, int(StateClosed))
	return cb
}

// OnStateChange 设置状态变化回调（记录日志、告警）
func (cb *CircuitBreaker) OnStateChange(fn func(name string, from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// Name 熔断器名称
func (cb *CircuitBreaker) Name() string { return cb.name }

// Execute 在熔断保护下执行fn
// 熔断时直接返回ErrOpenState，不调用fn
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	generation, err := cb.beforeRequest()
	if err != nil {
		metrics.BreakerRequest(cb.name, "rejected")
		return err
	}

	err = fn(ctx)
	ok := cb.isSuccessful(err)
	cb.afterRequest(generation, ok)
	if ok {
		metrics.BreakerRequest(cb.name, "success")
	} else {
		metrics.BreakerRequest(cb.name, "failure")
	}
	return err
}

// State 当前状态
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	state, _ := cb.currentState(cb.now())
	return state
}

// Counts 当前统计
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.counts
}

func (cb *CircuitBreaker) beforeRequest() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, generation := cb.currentState(cb.now())
	if state == StateOpen {
		return generation, ErrOpenState
	}
	if state == StateHalfOpen && cb.counts.Requests >= cb.maxRequests {
		return generation, ErrOpenState
	}
	cb.counts.Requests++
	return generation, nil
}

func (cb *CircuitBreaker) afterRequest(before uint64, success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	state, generation := cb.currentState(now)
	// 请求期间状态已切换，结果作废
	if generation != before {
		return
	}

	if success {
		cb.counts.success()
		if state == StateHalfOpen && cb.counts.ConsecutiveSuccesses >= cb.maxRequests {
			cb.setState(StateClosed, now)
		}
		return
	}

	cb.counts.failure()
	switch state {
	case StateClosed:
		if cb.readyToTrip(cb.counts) {
			cb.setState(StateOpen, now)
		}
	case StateHalfOpen:
		cb.setState(StateOpen, now)
	}
}

func (cb *CircuitBreaker) currentState(now time.Time) (State, uint64) {
	switch cb.state {
	case StateClosed:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.toNewGeneration(now)
		}
	case StateOpen:
		if cb.expiry.Before(now) {
			cb.setState(StateHalfOpen, now)
		}
	}
	return cb.state, cb.generation
}

func (cb *CircuitBreaker) setState(state State, now time.Time) {
	if cb.state == state {
		return
	}
	prev := cb.state
	cb.state = state
	cb.toNewGeneration(now)

	metrics.BreakerState(cb.name, int(state))
	if cb.onStateChange != nil {
		cb.onStateChange(cb.name, prev, state)
	}
}

func (cb *CircuitBreaker) toNewGeneration(now time.Time) {
	cb.generation++
	cb.counts = Counts{}

	switch cb.state {
	case StateClosed:
		if cb.interval > 0 {
			cb.expiry = now.Add(cb.interval)
		} else {
			cb.expiry = time.Time{}
		}
	case StateOpen:
		cb.expiry = now.Add(cb.timeout)
	default:
		cb.expiry = time.Time{}
	}
}
