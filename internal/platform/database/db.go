package database

import (
	"fmt"
	"log"
	"os"

	"github.com/SlpAus/culling-game-backend/internal/platform/config"
	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB 是一个全局的GORM数据库实例，供项目其他部分使用
var DB *gorm.DB

// InitDB 初始化数据库连接
// 根据配置选择SQLite（默认，零部署）或PostgreSQL（生产）
func InitDB(cfg config.DatabaseConfig) error {
	// GORM日志配置
	newLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold: 0,
			LogLevel:      gormlogger.Silent, // 生产环境中保持Silent
			Colorful:      true,
		},
	)

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Postgres.DSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.Sqlite.Path)
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	logger.L.Info("数据库连接成功")
	return nil
}

// SupportsRowLocking 判断当前数据库方言是否支持 SELECT ... FOR UPDATE。
// SQLite不支持行级锁，写事务本身就是串行的，因此可以安全地跳过锁子句。
func SupportsRowLocking() bool {
	if DB == nil {
		return false
	}
	return DB.Dialector.Name() == "postgres"
}
