package ranking

import (
	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
)

// WarmupCache 在启动时做一次全量重排，同时把排行榜镜像灌入Redis。
// 重排本身是幂等的，对已经排好序的数据不产生任何写入。
func WarmupCache() error {
	if err := Recompute(); err != nil {
		return err
	}
	logger.L.Info("排行榜缓存预热完成")
	return nil
}
