// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Init 配置全局 zerolog，所有日志都带上 service 字段。
func Init(serviceName, level string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	zlog.Logger = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// L 返回全局 logger。
func L() *zerolog.Logger {
	return &zlog.Logger
}

// Ctx 返回 context 中携带的 logger；没有时退回全局 logger。
func Ctx(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l == nil || l.GetLevel() == zerolog.Disabled {
		return &zlog.Logger
	}
	return l
}

// WithTraceID 派生一个带 trace_id 的 logger 并写入 context。
func WithTraceID(ctx context.Context, traceID string) context.Context {
	l := zlog.With().Str("trace_id", traceID).Logger()
	return l.WithContext(ctx)
}
