package fight

import (
	"fmt"

	"github.com/SlpAus/culling-game-backend/internal/platform/database"
	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
)

// migrateDB 负责自动迁移数据库表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&FightResult{}); err != nil {
		return fmt.Errorf("无法迁移fight_result表: %w", err)
	}
	logger.L.Info("FightResult数据库表迁移成功")
	return nil
}

// PrimeDB 是fight模块的初始化入口
func PrimeDB() error {
	return migrateDB()
}
