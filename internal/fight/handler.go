package fight

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SlpAus/culling-game-backend/internal/character"
	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
	"github.com/SlpAus/culling-game-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// PostFightRequestBody 定义了发起对战的请求体
type PostFightRequestBody struct {
	OpponentID string `json:"opponentId" binding:"required"`
}

// PostFight 处理发起对战的请求
func PostFight(c *gin.Context) {
	var body PostFightRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "opponentId is required"})
		return
	}

	own, err := character.GetByUserID(user.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, character.ErrCharacterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Character not found"})
			return
		}
		logger.L.Errorw("查询挑战方角色失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Fight execution failed"})
		return
	}

	record, err := ExecuteFight(c.Request.Context(), own.ID, body.OpponentID)
	if err != nil {
		var insufficientXP *InsufficientXPError
		switch {
		case errors.As(err, &insufficientXP):
			c.JSON(http.StatusBadRequest, gin.H{"error": insufficientXP.Error()})
		case errors.Is(err, ErrSelfChallenge):
			c.JSON(http.StatusBadRequest, gin.H{"error": ErrSelfChallenge.Error()})
		case errors.Is(err, ErrFighterMissing):
			c.JSON(http.StatusNotFound, gin.H{"error": ErrFighterMissing.Error()})
		default:
			logger.L.Errorw("对战执行失败", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Fight execution failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"fightId":  record.ID,
		"winnerId": record.WinnerID,
	})
}

// GetFight 返回单场对战的公开详情
func GetFight(c *gin.Context) {
	detail, err := GetDetailByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrFightNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Fight not found"})
			return
		}
		logger.L.Errorw("查询对战详情失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch fight"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetReports 分页返回公开的战报列表
func GetReports(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	search := c.Query("search")

	result, err := ListReports(page, pageSize, search)
	if err != nil {
		logger.L.Errorw("查询战报列表失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMyCharacter 返回当前用户的角色及其最近战绩
func GetMyCharacter(c *gin.Context) {
	own, err := character.GetByUserID(user.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, character.ErrCharacterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Character not found"})
			return
		}
		logger.L.Errorw("查询角色失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch character"})
		return
	}

	recent, err := ListRecentForCharacter(own.ID, 10)
	if err != nil {
		logger.L.Errorw("查询最近战绩失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch character"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"character":    own,
		"recentFights": recent,
	})
}
