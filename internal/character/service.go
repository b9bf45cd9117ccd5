package character

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SlpAus/culling-game-backend/internal/oracle"
	"github.com/SlpAus/culling-game-backend/internal/platform/database"
	"github.com/SlpAus/culling-game-backend/internal/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 角色操作的业务错误
var (
	ErrCharacterExists   = errors.New("该用户已经拥有角色")
	ErrCharacterNotFound = errors.New("角色不存在")
	ErrLoreShrunk        = errors.New("Lore depth cannot shrink. Add more detail, never less.")
	ErrEmptyUpgrade      = errors.New("Provide at least one upgrade before submitting.")
)

// generator 是包级的Oracle生成能力，启动时注入。
// 测试可以替换为桩实现。
var generator oracle.Generator

// UseGenerator 注入Oracle生成实现
func UseGenerator(g oracle.Generator) {
	generator = g
}

// GetByID 按主键读取角色
func GetByID(id string) (*Character, error) {
	var c Character
	if err := database.DB.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByUserID 读取某个用户的角色
func GetByUserID(userID string) (*Character, error) {
	var c Character
	if err := database.DB.First(&c, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create 完成角色创建：校验唯一性，请求Oracle评定，落库。
// 新角色获赠初始XP，弱点和等级由Oracle决定而不是玩家自报。
func Create(ctx context.Context, userID string, in CreateCharacterInput) (*Character, error) {
	if _, err := GetByUserID(userID); err == nil {
		return nil, ErrCharacterExists
	} else if !errors.Is(err, ErrCharacterNotFound) {
		return nil, err
	}

	// 国家在onboarding时随表单一并提交，写回用户档案
	if err := user.UpdateCountry(userID, in.Country); err != nil {
		return nil, err
	}

	c := &Character{
		UserID:             userID,
		Name:               in.Name,
		Gender:             in.Gender,
		Appearance:         in.Appearance,
		Personality:        in.Personality,
		Backstory:          in.Backstory,
		PowerSystem:        in.PowerSystem,
		CursedTechnique:    in.CursedTechnique,
		InnateTechnique:    in.InnateTechnique,
		MaxTechnique:       in.MaxTechnique,
		DomainExpansion:    in.DomainExpansion,
		ReverseTechnique:   in.ReverseTechnique,
		PowerLevelEstimate: in.PowerLevelEstimate,
		EnergyLevel:        in.EnergyLevel,
		XP:                 InitialXP,
		BindingVows:        []oracle.BindingVow{},
	}

	insights, err := generator.GenerateCharacterInsights(ctx, c.Profile())
	if err != nil {
		return nil, fmt.Errorf("角色评定失败: %w", err)
	}
	applyInsights(c, insights)

	newUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成角色UUID: %w", err)
	}
	c.ID = newUUID.String()

	if err := database.DB.Create(c).Error; err != nil {
		return nil, fmt.Errorf("无法创建角色: %w", err)
	}
	return c, nil
}

// Upgrade 处理角色进化：叙事只增不减，咒力按强化项增长，进化后重新评定
func Upgrade(ctx context.Context, userID string, in UpgradeCharacterInput) (*Character, error) {
	if in.IsEmpty() {
		return nil, ErrEmptyUpgrade
	}

	c, err := GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	if field := findShrunkenField(c, &in); field != "" {
		return nil, fmt.Errorf("%w (field: %s)", ErrLoreShrunk, field)
	}

	applyUpgrade(c, &in)
	c.EnergyLevel = CapEnergy(c.EnergyLevel, energyGainForUpgrade(&in))

	insights, err := generator.GenerateCharacterInsights(ctx, c.Profile())
	if err != nil {
		return nil, fmt.Errorf("进化后的评定失败: %w", err)
	}
	applyInsights(c, insights)

	if err := database.DB.Save(c).Error; err != nil {
		return nil, fmt.Errorf("无法保存进化后的角色: %w", err)
	}
	return c, nil
}

// CreateBindingVow 让Oracle将誓约概念展开为完整细节并附加到角色上
func CreateBindingVow(ctx context.Context, userID string, in BindingVowConceptInput) (*Character, error) {
	c, err := GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	vow, err := generator.GenerateBindingVowDetails(ctx, in.Concept)
	if err != nil {
		return nil, fmt.Errorf("誓约生成失败: %w", err)
	}
	vow.Name = in.Name

	c.BindingVows = append(c.BindingVows, *vow)
	c.EnergyLevel = CapEnergy(c.EnergyLevel, EnergyGainBindingVow)

	// 新誓约会改变战力平衡，重新评定等级和弱点
	insights, err := generator.GenerateCharacterInsights(ctx, c.Profile())
	if err != nil {
		return nil, fmt.Errorf("缔结誓约后的评定失败: %w", err)
	}
	applyInsights(c, insights)

	if err := database.DB.Save(c).Error; err != nil {
		return nil, fmt.Errorf("无法保存誓约: %w", err)
	}
	return c, nil
}

// GenerateFromPrompt 快速生成模式：由Oracle根据一句话描述产出完整设定。
// 结果只返回给前端填表，不直接落库。
func GenerateFromPrompt(ctx context.Context, prompt string) (*oracle.GeneratedCharacter, error) {
	generated, err := generator.GenerateCharacterFromPrompt(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("快速生成角色失败: %w", err)
	}
	return generated, nil
}

// OpponentDTO 是对手列表中单个角色的瘦身视图
type OpponentDTO struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Grade   oracle.Grade `json:"grade"`
	Wins    int          `json:"wins"`
	Losses  int          `json:"losses"`
	Ranking int          `json:"ranking"`
	XP      int          `json:"xp"`
}

// OpponentPage 是分页后的对手列表
type OpponentPage struct {
	Opponents []OpponentDTO `json:"opponents"`
	Page      int           `json:"page"`
	PageSize  int           `json:"pageSize"`
	Total     int64         `json:"total"`
	HasMore   bool          `json:"hasMore"`
}

// ListOpponents 分页列出可挑战的对手，排除调用者自己的角色
func ListOpponents(userID string, page, pageSize int, search string) (*OpponentPage, error) {
	own, err := GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := database.DB.Model(&Character{}).Where("id <> ?", own.ID)
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("无法统计对手数量: %w", err)
	}

	var opponents []OpponentDTO
	err = query.
		Select("id", "name", "grade", "wins", "losses", "ranking", "xp").
		Order("ranking asc").Order("wins desc").Order("losses asc").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&opponents).Error
	if err != nil {
		return nil, fmt.Errorf("无法查询对手列表: %w", err)
	}

	return &OpponentPage{
		Opponents: opponents,
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		HasMore:   int64((page-1)*pageSize+len(opponents)) < total,
	}, nil
}

// applyInsights 将Oracle评定结果写入角色
func applyInsights(c *Character, insights *oracle.CharacterInsights) {
	c.Grade = insights.Grade
	c.Weaknesses = insights.Weaknesses
	if len(insights.BalancingNotes) > 0 {
		c.BalancingNotes = insights.BalancingNotes
	}
}

// applyUpgrade 将进化表单中非空的字段覆盖到角色上
func applyUpgrade(c *Character, in *UpgradeCharacterInput) {
	if in.Appearance != "" {
		c.Appearance = in.Appearance
	}
	if in.Personality != "" {
		c.Personality = in.Personality
	}
	if in.Backstory != "" {
		c.Backstory = in.Backstory
	}
	if in.PowerSystem != "" {
		c.PowerSystem = in.PowerSystem
	}
	if in.CursedTechnique != "" {
		c.CursedTechnique = in.CursedTechnique
	}
	if in.InnateTechnique != "" {
		c.InnateTechnique = in.InnateTechnique
	}
	if in.MaxTechnique != "" {
		c.MaxTechnique = in.MaxTechnique
	}
	if in.DomainExpansion != "" {
		c.DomainExpansion = in.DomainExpansion
	}
	if in.ReverseTechnique != "" {
		c.ReverseTechnique = in.ReverseTechnique
	}
	if in.PowerLevelEstimate != "" {
		c.PowerLevelEstimate = in.PowerLevelEstimate
	}
}
