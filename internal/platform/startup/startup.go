package startup

import (
	"github.com/SlpAus/culling-game-backend/internal/character"
	"github.com/SlpAus/culling-game-backend/internal/fight"
	"github.com/SlpAus/culling-game-backend/internal/payment"
	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
	"github.com/SlpAus/culling-game-backend/internal/ranking"
	"github.com/SlpAus/culling-game-backend/internal/user"
)

// InitializeApplication 是应用启动时执行的总入口：
// 迁移所有表结构，并预热用户缓存和排行榜镜像。
func InitializeApplication() error {
	logger.L.Info("开始应用初始化...")

	if err := user.PrimeCachedDB(); err != nil {
		return err
	}
	if err := character.PrimeDB(); err != nil {
		return err
	}
	if err := fight.PrimeDB(); err != nil {
		return err
	}
	if err := payment.PrimeDB(); err != nil {
		return err
	}
	if err := ranking.WarmupCache(); err != nil {
		return err
	}

	logger.L.Info("应用初始化完成")
	return nil
}

// RebuildCache 在运行时热重建Redis缓存（用户Set和排行榜镜像）
func RebuildCache() error {
	logger.L.Info("开始缓存热重建...")

	if err := user.WarmupCache(); err != nil {
		return err
	}
	if err := ranking.WarmupCache(); err != nil {
		return err
	}

	logger.L.Info("缓存热重建完成")
	return nil
}
