// Package logger 基于zap的结构化日志
package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xiebiao/library/pkg/tracing"
)

// Options 日志配置
type Options struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string // stdout | stderr | /path/to/file
	EnableCaller bool
}

// New 创建zap Logger
// 未知级别按info处理，Output为空时输出到stdout
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(opts.Level))); err != nil {
			return nil, fmt.Errorf("无效的日志级别 %q: %w", opts.Level, err)
		}
	}

	var cfg zap.Config
	if opts.Format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableCaller = !opts.EnableCaller
	cfg.DisableStacktrace = level > zapcore.DebugLevel

	output := opts.Output
	if output == "" {
		output = "stdout"
	}
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}

// Init 创建Logger并替换全局Logger
// 返回的函数用于进程退出前刷新缓冲
func Init(opts Options) (func(), error) {
	l, err := New(opts)
	if err != nil {
		return nil, err
	}
	undo := zap.ReplaceGlobals(l)
	return func() {
		_ = l.Sync()
		undo()
	}, nil
}

// Ctx 返回附带trace_id的全局Logger
func Ctx(ctx context.Context) *zap.Logger {
	l := zap.L()
	if traceID := tracing.ExtractTraceID(ctx); traceID != "" {
		l = l.With(zap.String("trace_id", traceID))
	}
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		l = l.With(zap.String("request_id", requestID))
	}
	return l
}

type ctxKey string

// RequestIDKey 请求ID在context中的键
const RequestIDKey ctxKey = "request_id"
