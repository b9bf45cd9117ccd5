package user

import (
	"fmt"

	"github.com/SlpAus/culling-game-backend/internal/platform/database"
	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
)

// migrateDB 负责自动迁移数据库表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&User{}); err != nil {
		return fmt.Errorf("无法迁移user表: %w", err)
	}
	logger.L.Info("User数据库表迁移成功")
	return nil
}

// WarmupCache 从SQL加载所有已知的用户ID，并预热到Redis的Set中
func WarmupCache() error {
	var ids []string
	if err := database.DB.Model(&User{}).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("无法读取用户ID: %w", err)
	}

	if len(ids) == 0 {
		logger.L.Info("无现有用户数据，无需预热用户缓存")
		return nil
	}

	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}

	// 先清空旧缓存再批量写入，保证Set和SQL一致
	pipe := database.RDB.Pipeline()
	pipe.Del(database.Ctx, KnownUsersKey)
	pipe.SAdd(database.Ctx, KnownUsersKey, members...)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热用户ID到Redis失败: %w", err)
	}

	logger.L.Infof("成功预热 %d 个用户ID到Redis", len(ids))
	return nil
}

// PrimeCachedDB 是user模块的初始化总入口。
// Redis不可用时跳过预热，IsKnown会退回SQL查询。
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	if !database.IsRedisHealthy() {
		logger.L.Warn("Redis不可用，跳过用户缓存预热")
		return nil
	}
	if err := WarmupCache(); err != nil {
		return err
	}
	return nil
}
