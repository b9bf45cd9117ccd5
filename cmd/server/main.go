package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/culling-game-backend/api"
	"github.com/SlpAus/culling-game-backend/internal/character"
	"github.com/SlpAus/culling-game-backend/internal/fight"
	"github.com/SlpAus/culling-game-backend/internal/oracle"
	"github.com/SlpAus/culling-game-backend/internal/platform/config"
	"github.com/SlpAus/culling-game-backend/internal/platform/database"
	"github.com/SlpAus/culling-game-backend/internal/platform/health"
	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
	"github.com/SlpAus/culling-game-backend/internal/platform/shutdown"
	"github.com/SlpAus/culling-game-backend/internal/platform/startup"
	"github.com/SlpAus/culling-game-backend/internal/ranking"
	"github.com/SlpAus/culling-game-backend/pkg/lifecycle"
	"github.com/SlpAus/culling-game-backend/pkg/token"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env不存在时静默跳过，环境变量照常生效
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}

	if err := logger.Initialize(cfg.Server.Mode); err != nil {
		panic(fmt.Sprintf("初始化日志失败: %v", err))
	}
	defer logger.Sync()

	token.InitializeKey(cfg.Session.Secret)

	if err := database.InitDB(cfg.Database); err != nil {
		panic(fmt.Sprintf("数据库初始化失败: %v", err))
	}
	if err := database.InitRedis(cfg.Database.Redis); err != nil {
		// Redis不可用不阻止启动，排行榜读取会降级为SQL
		logger.L.Warnw("Redis初始化失败，以降级模式启动", "error", err)
		database.UpdateRedisStatus(false)
	}

	// 注入Oracle实现：配置了API密钥时使用生成式AI，
	// 否则退化为确定性的评分裁决（开发和离线环境）
	if cfg.Oracle.APIKey != "" {
		client, err := oracle.NewClient(cfg.Oracle)
		if err != nil {
			panic(fmt.Sprintf("Oracle客户端初始化失败: %v", err))
		}
		fight.UseDecider(client)
		character.UseGenerator(client)
	} else {
		logger.L.Warn("未配置Oracle API密钥，对战裁决退化为确定性评分，角色生成不可用")
		fight.UseDecider(oracle.NewScoreDecider(time.Now().UnixNano()))
	}

	// 执行应用启动初始化流程
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 生命周期管理器和后台服务
	gracefulMgr := lifecycle.NewManager()
	forcefulMgr := lifecycle.NewManager()

	if database.IsRedisHealthy() {
		healthHandle, err := gracefulMgr.NewServiceHandle("redis-health-checker")
		if err != nil {
			panic(err)
		}
		health.StartRedisHealthCheck(healthHandle)
	}

	notifierHandle, err := gracefulMgr.NewServiceHandle("rank-notifier")
	if err != nil {
		panic(err)
	}
	ranking.StartNotifier(notifierHandle)

	gin.SetMode(ginMode(cfg.Server.Mode))
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(cfg),
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		logger.L.Infof("服务器已准备就绪，开始监听 %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic("Failed to start server: " + err.Error())
		}
	}()

	coordinator := shutdown.NewCoordinator(gracefulMgr, forcefulMgr)
	coordinator.ListenForSignalsAndShutdown(server)
}

func ginMode(mode string) string {
	if mode == "release" {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}

func corsOrigins(cfg *config.Config) []string {
	if len(cfg.Server.Cors.AllowedOrigins) > 0 {
		return cfg.Server.Cors.AllowedOrigins
	}
	return []string{cfg.Server.AppURL}
}
