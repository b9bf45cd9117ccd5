package database

import (
	"sync"

	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
)

// statusManager 负责线程安全地管理和提供Redis镜像缓存的健康状态。
// 当Redis不可用时，排行榜读取会降级为直接查询SQL。
type statusManager struct {
	mu             sync.RWMutex
	isRedisHealthy bool
}

// 全局的状态管理器实例
var globalStatus = &statusManager{
	isRedisHealthy: true, // 默认启动时是健康的
}

// IsRedisHealthy 返回当前Redis的健康状态。
func IsRedisHealthy() bool {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.isRedisHealthy
}

// UpdateRedisStatus 用于线程安全地更新健康状态。
func UpdateRedisStatus(isHealthy bool) {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()

	// 只有当状态发生变化时才打印日志
	if globalStatus.isRedisHealthy != isHealthy {
		globalStatus.isRedisHealthy = isHealthy
		if isHealthy {
			logger.L.Info("健康检查: Redis服务状态已更新为 [可用]")
		} else {
			logger.L.Warn("健康检查警告: Redis服务状态已更新为 [不可用]，排行榜读取降级为SQL")
		}
	}
}
