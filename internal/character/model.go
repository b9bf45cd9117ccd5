package character

import (
	"time"

	"github.com/SlpAus/culling-game-backend/internal/oracle"
	"gorm.io/gorm"
)

// 角色相关的业务常量
const (
	// MaxEnergyLevel 是咒力等级的硬上限
	MaxEnergyLevel = 9999

	// InitialXP 是新角色创建时获赠的初始XP
	InitialXP = 50
)

// 角色进化时各项强化带来的咒力增幅
const (
	EnergyGainDomain      = 50
	EnergyGainMaxTech     = 40
	EnergyGainReverse     = 30
	EnergyGainTechnique   = 20
	EnergyGainPowerSystem = 15
	EnergyGainGrowth      = 10
	EnergyGainBindingVow  = 25
)

// Character 定义了数据库中角色的数据结构。
// 每个用户最多拥有一个角色（UserID上的唯一索引保证）。
type Character struct {
	// ID 是角色的主键UUID
	ID string `gorm:"primarykey;type:varchar(36)" json:"id"`

	// UserID 是所属用户的ID
	UserID string `gorm:"uniqueIndex;not null;type:varchar(36)" json:"userId"`

	// --- 身份与设定 ---

	Name   string `gorm:"not null" json:"name"`
	Gender string `json:"gender"`

	Appearance       string `json:"appearance"`
	Personality      string `json:"personality"`
	Backstory        string `json:"backstory"`
	PowerSystem      string `json:"powerSystem"`
	CursedTechnique  string `json:"cursedTechnique"`
	InnateTechnique  string `json:"innateTechnique"`
	MaxTechnique     string `json:"maxTechnique"`
	DomainExpansion  string `json:"domainExpansion"`
	ReverseTechnique string `json:"reverseTechnique,omitempty"`

	PowerLevelEstimate string `json:"powerLevelEstimate"`

	// --- Oracle评定结果 ---

	// Grade 是Oracle评定的术师等级
	Grade oracle.Grade `gorm:"type:varchar(16)" json:"grade"`

	// Weaknesses 是Oracle评定的弱点，整体以JSON列存储
	Weaknesses oracle.Weaknesses `gorm:"serializer:json" json:"weaknesses"`

	// BindingVows 是角色已缔结的誓约列表，JSON列
	BindingVows []oracle.BindingVow `gorm:"serializer:json" json:"bindingVows"`

	// BalancingNotes 是Oracle附带的平衡性说明
	BalancingNotes []string `gorm:"serializer:json" json:"balancingNotes"`

	// --- 战斗数值 ---

	// EnergyLevel 是咒力等级，1~9999，只增不减
	EnergyLevel int `json:"energyLevel"`

	// XP 是可消费的经验值，任何结算都不允许让它变成负数
	XP int `json:"xp"`

	Wins   int `json:"wins"`
	Losses int `json:"losses"`

	// Ranking 是全量重排后的名次，0表示尚未参与排名
	Ranking int `gorm:"index" json:"ranking"`

	// PreviousRanking 记录上一次名次发生变化前的名次
	PreviousRanking int `json:"previousRanking"`

	// LastFoughtAt 是最近一次参与对战的时间
	LastFoughtAt *time.Time `json:"lastFoughtAt,omitempty"`

	// 由GORM自动管理
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// FighterStats 构建传递给Oracle的完整战斗快照
func (c *Character) FighterStats() oracle.FighterStats {
	return oracle.FighterStats{
		Name:             c.Name,
		Grade:            c.Grade,
		EnergyLevel:      c.EnergyLevel,
		CursedTechnique:  c.CursedTechnique,
		InnateTechnique:  c.InnateTechnique,
		MaxTechnique:     c.MaxTechnique,
		DomainExpansion:  c.DomainExpansion,
		ReverseTechnique: c.ReverseTechnique,
		Weaknesses:       c.Weaknesses,
		BindingVows:      c.BindingVows,
		Wins:             c.Wins,
		Losses:           c.Losses,
		Ranking:          c.Ranking,
	}
}

// Profile 构建请求Oracle评定时的角色侧写
func (c *Character) Profile() oracle.CharacterProfile {
	profile := oracle.CharacterProfile{
		Appearance:         c.Appearance,
		Personality:        c.Personality,
		Backstory:          c.Backstory,
		PowerSystem:        c.PowerSystem,
		CursedTechnique:    c.CursedTechnique,
		InnateTechnique:    c.InnateTechnique,
		MaxTechnique:       c.MaxTechnique,
		DomainExpansion:    c.DomainExpansion,
		ReverseTechnique:   c.ReverseTechnique,
		EnergyLevel:        c.EnergyLevel,
		PowerLevelEstimate: c.PowerLevelEstimate,
		BindingVows:        c.BindingVows,
	}
	profile.Identity.Name = c.Name
	profile.Identity.Gender = c.Gender
	return profile
}

// CapEnergy 将咒力增幅应用到上限以内
func CapEnergy(current, gain int) int {
	next := current + gain
	if next > MaxEnergyLevel {
		return MaxEnergyLevel
	}
	return next
}
