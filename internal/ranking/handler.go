package ranking

import (
	"net/http"
	"strconv"

	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
	"github.com/gin-gonic/gin"
)

// GetLeaderboard 获取公开的排行榜
func GetLeaderboard(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	result, err := Leaderboard(page, pageSize)
	if err != nil {
		logger.L.Errorw("获取排行榜失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}

	c.JSON(http.StatusOK, result)
}
