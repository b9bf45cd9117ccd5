package payment

import (
	"fmt"

	"github.com/SlpAus/culling-game-backend/internal/platform/config"
	"github.com/SlpAus/culling-game-backend/internal/platform/database"
	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
)

// migrateDB 负责自动迁移数据库表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&XpPurchase{}, &PaymentTransaction{}); err != nil {
		return fmt.Errorf("无法迁移payment相关表: %w", err)
	}
	logger.L.Info("Payment数据库表迁移成功")
	return nil
}

// PrimeDB 是payment模块的初始化入口
func PrimeDB() error {
	InitStripe(config.Cfg.Payment.Stripe)
	if !config.Cfg.Payment.Stripe.Configured() {
		logger.L.Warn("Stripe未配置，所有用户将被路由到Paystack")
	}
	return migrateDB()
}
