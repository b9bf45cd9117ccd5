package health

import (
	"context"
	"time"

	"github.com/SlpAus/culling-game-backend/internal/platform/database"
	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
	"github.com/SlpAus/culling-game-backend/internal/platform/startup"
	"github.com/SlpAus/culling-game-backend/pkg/lifecycle"
)

const (
	checkInterval = 5 * time.Second
	pingTimeout   = 2 * time.Second
)

// pingRedis 执行一次带超时的Redis连通性检查
func pingRedis() bool {
	ctx, cancel := context.WithTimeout(database.Ctx, pingTimeout)
	defer cancel()
	return database.RDB.Ping(ctx).Err() == nil
}

// PerformCheck 执行一次健康检查和可能的修复操作。
// Redis从不可用恢复时重建全部缓存——恢复的实例可能是重启后的空实例，
// 镜像必须从SQL重新灌入才可信。
func PerformCheck() {
	alive := pingRedis()

	if alive && !database.IsRedisHealthy() {
		logger.L.Info("健康检查: Redis已恢复，触发缓存热重建...")
		if err := startup.RebuildCache(); err != nil {
			logger.L.Errorw("健康检查: 缓存热重建失败，保持降级状态", "error", err)
			return
		}
	}

	database.UpdateRedisStatus(alive)
}

// StartRedisHealthCheck 启动后台健康检查循环，生命周期由handle管理
func StartRedisHealthCheck(handle *lifecycle.Handle) {
	go func() {
		defer handle.Close()
		logger.L.Info("Redis健康检查器已启动")

		for {
			if err := handle.Sleep(checkInterval); err != nil {
				return
			}
			PerformCheck()
		}
	}()
}
