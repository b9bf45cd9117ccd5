package character

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
	"github.com/SlpAus/culling-game-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// CreateCharacter 处理角色创建（onboarding）
func CreateCharacter(c *gin.Context) {
	var input CreateCharacterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please review your sorcerer details and try again."})
		return
	}

	created, err := Create(c.Request.Context(), user.CurrentUserID(c), input)
	if err != nil {
		if errors.Is(err, ErrCharacterExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "You already command a sorcerer."})
			return
		}
		logger.L.Errorw("角色创建失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize sorcerer profile. Try again shortly."})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GenerateCharacter 处理快速生成：返回一份完整设定供前端填表
func GenerateCharacter(c *gin.Context) {
	var input GenerateCharacterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Describe the sorcerer you want in at least a sentence."})
		return
	}

	generated, err := GenerateFromPrompt(c.Request.Context(), input.Prompt)
	if err != nil {
		logger.L.Errorw("快速生成角色失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Character generation failed. Try again shortly."})
		return
	}

	c.JSON(http.StatusOK, generated)
}

// UpgradeCharacter 处理角色进化
func UpgradeCharacter(c *gin.Context) {
	var input UpgradeCharacterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Review your upgrades and try again."})
		return
	}

	upgraded, err := Upgrade(c.Request.Context(), user.CurrentUserID(c), input)
	if err != nil {
		switch {
		case errors.Is(err, ErrCharacterNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Create a sorcerer first."})
		case errors.Is(err, ErrEmptyUpgrade):
			c.JSON(http.StatusBadRequest, gin.H{"error": ErrEmptyUpgrade.Error()})
		case errors.Is(err, ErrLoreShrunk):
			c.JSON(http.StatusBadRequest, gin.H{"error": ErrLoreShrunk.Error()})
		default:
			logger.L.Errorw("角色进化失败", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Upgrade failed. Try again shortly."})
		}
		return
	}

	c.JSON(http.StatusOK, upgraded)
}

// CreateVow 处理誓约缔结
func CreateVow(c *gin.Context) {
	var input BindingVowConceptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Binding vow concept is incomplete."})
		return
	}

	updated, err := CreateBindingVow(c.Request.Context(), user.CurrentUserID(c), input)
	if err != nil {
		if errors.Is(err, ErrCharacterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Create a sorcerer first."})
			return
		}
		logger.L.Errorw("誓约缔结失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Binding vow failed. Try again shortly."})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// GetOpponents 分页返回可挑战的对手
func GetOpponents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	search := c.Query("search")

	result, err := ListOpponents(user.CurrentUserID(c), page, pageSize, search)
	if err != nil {
		if errors.Is(err, ErrCharacterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Character not found"})
			return
		}
		logger.L.Errorw("查询对手列表失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch opponents"})
		return
	}

	c.JSON(http.StatusOK, result)
}
