package api

import (
	"github.com/SlpAus/culling-game-backend/internal/character"
	"github.com/SlpAus/culling-game-backend/internal/fight"
	"github.com/SlpAus/culling-game-backend/internal/payment"
	"github.com/SlpAus/culling-game-backend/internal/ranking"
	"github.com/SlpAus/culling-game-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	requireSession := user.RequireSessionMiddleware()

	api := router.Group("/api")
	{
		// 角色相关的路由组 /api/characters
		characterRoutes := api.Group("/characters")
		{
			characterRoutes.POST("", requireSession, character.CreateCharacter)
			characterRoutes.POST("/generate", requireSession, character.GenerateCharacter)
			characterRoutes.PATCH("", requireSession, character.UpgradeCharacter)
			characterRoutes.POST("/vows", requireSession, character.CreateVow)
			characterRoutes.GET("/me", requireSession, fight.GetMyCharacter)
			characterRoutes.GET("/opponents", requireSession, character.GetOpponents)
		}

		// 对战相关的路由
		api.POST("/fight", requireSession, fight.PostFight)
		fightRoutes := api.Group("/fights")
		{
			fightRoutes.GET("", fight.GetReports)
			fightRoutes.GET("/:id", fight.GetFight)
		}

		// 排行榜是公开的
		api.GET("/leaderboard", ranking.GetLeaderboard)

		// 支付相关的路由组 /api/payments
		paymentRoutes := api.Group("/payments")
		{
			paymentRoutes.GET("/packages", requireSession, payment.GetPackages)
			paymentRoutes.POST("/session", requireSession, payment.CreateCheckoutSession)
			paymentRoutes.GET("/callback", payment.HandleCallback)
			paymentRoutes.POST("/webhook", payment.HandleStripeWebhook)
			paymentRoutes.GET("/transactions", requireSession, payment.GetTransactions)
		}
	}
}
