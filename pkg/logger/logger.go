package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 全局日志实例，中间件与启动流程使用
// 业务 service 通过构造函数注入 *zap.Logger
var Log *zap.Logger

// Init 根据运行环境初始化日志
// dev/test 使用彩色的 console 输出，其它环境输出 JSON
func Init(env string, debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "" || env == "dev" || env == "test" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	l, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return nil, err
	}
	Log = l
	zap.ReplaceGlobals(l)
	return l, nil
}

// Named 返回带模块名的子 logger，Log 未初始化时返回 Nop
func Named(name string) *zap.Logger {
	if Log == nil {
		return zap.NewNop()
	}
	return Log.Named(name)
}

// Sync 刷新缓冲区
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
