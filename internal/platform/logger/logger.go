package logger

import (
	"go.uber.org/zap"
)

// L 是全局的结构化日志记录器，在Initialize之前使用会得到no-op logger
var L = zap.NewNop().Sugar()

// Initialize 根据服务器模式构建zap logger并替换全局实例。
// debug模式下使用带颜色的开发配置，release模式下使用JSON生产配置。
func Initialize(mode string) error {
	var (
		base *zap.Logger
		err  error
	)

	if mode == "release" {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(base)
	L = base.Sugar()
	return nil
}

// Sync 刷新所有缓冲的日志条目，应该在程序退出前通过defer调用
func Sync() {
	_ = L.Sync()
}
