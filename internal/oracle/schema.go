package oracle

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Grade 是五档的术师等级，由Oracle根据角色完整设定评定
type Grade string

const (
	Grade4       Grade = "GRADE_4"
	Grade3       Grade = "GRADE_3"
	Grade2       Grade = "GRADE_2"
	Grade1       Grade = "GRADE_1"
	SpecialGrade Grade = "SPECIAL_GRADE"
)

// Weaknesses 是角色的弱点结构，四个命名列表都必须非空。
// 它既是Oracle的输出，也以JSON列的形式持久化在角色记录上。
type Weaknesses struct {
	CursedTechniqueDrawbacks []string `json:"cursedTechniqueDrawbacks" validate:"min=1,dive,required"`
	PhysicalLimitations      []string `json:"physicalLimitations" validate:"min=1,dive,required"`
	PersonalityFlaws         []string `json:"personalityFlaws" validate:"min=1,dive,required"`
	BattleVulnerabilities    []string `json:"battleVulnerabilities" validate:"min=1,dive,required"`
}

// BindingVow 是一条誓约：以代价换取强化
type BindingVow struct {
	Name         string   `json:"name"`
	Sacrifice    string   `json:"sacrifice" validate:"required"`
	Enhancements []string `json:"enhancements" validate:"min=1,dive,required"`
	Conditions   []string `json:"conditions" validate:"min=1,dive,required"`
	Limitations  []string `json:"limitations" validate:"min=1,dive,required"`
	SideEffects  []string `json:"sideEffects" validate:"min=1,dive,required"`
}

// CharacterInsights 是Oracle对角色设定的评定结果：等级 + 弱点
type CharacterInsights struct {
	Weaknesses     Weaknesses `json:"weaknesses" validate:"required"`
	Grade          Grade      `json:"grade" validate:"required,oneof=GRADE_4 GRADE_3 GRADE_2 GRADE_1 SPECIAL_GRADE"`
	BalancingNotes []string   `json:"balancingNotes"`
}

// 对战裁决中的胜者标签
const (
	WinnerFighterA = "fighterA"
	WinnerFighterB = "fighterB"
)

// BattleSummary 是Oracle返回的对战裁决：胜者标签 + 结构化战报。
// 任何不符合该schema的输出都不允许进入持久化状态。
type BattleSummary struct {
	Winner              string   `json:"winner" validate:"required,oneof=fighterA fighterB"`
	Title               string   `json:"title" validate:"required"`
	Opening             string   `json:"opening" validate:"required"`
	TechniquesUsed      []string `json:"techniquesUsed" validate:"min=1,dive,required"`
	WeaknessesExploited []string `json:"weaknessesExploited" validate:"min=1,dive,required"`
	DomainMoments       []string `json:"domainMoments"`
	TurningPoints       []string `json:"turningPoints" validate:"min=1,dive,required"`
	FinalBlow           string   `json:"finalBlow" validate:"required"`
	ReasonForVictory    string   `json:"reasonForVictory" validate:"required"`
	Injuries            []string `json:"injuries"`
	// 战报正文至少80个字符，确保足以完整复述这场战斗
	Narrative string `json:"narrative" validate:"required,min=80"`
}

// GeneratedCharacter 是快速生成模式下Oracle产出的完整角色设定
type GeneratedCharacter struct {
	Identity struct {
		Name   string `json:"name" validate:"required"`
		Gender string `json:"gender" validate:"required"`
	} `json:"identity" validate:"required"`
	Appearance         string `json:"appearance" validate:"required,min=30"`
	Personality        string `json:"personality" validate:"required,min=30"`
	Backstory          string `json:"backstory" validate:"required,min=60"`
	PowerSystem        string `json:"powerSystem" validate:"required,min=20"`
	CursedTechnique    string `json:"cursedTechnique" validate:"required,min=40"`
	InnateTechnique    string `json:"innateTechnique" validate:"required,min=40"`
	MaxTechnique       string `json:"maximumTechnique" validate:"required,min=40"`
	DomainExpansion    string `json:"domainExpansion" validate:"required,min=40"`
	ReverseTechnique   string `json:"reverseTechnique" validate:"omitempty,min=20"`
	EnergyLevel        int    `json:"energyLevel" validate:"required,min=1,max=9999"`
	PowerLevelEstimate string `json:"powerLevelEstimate" validate:"required"`
}

// FighterStats 是传递给Oracle的完整战斗快照。
// Oracle看不到快照之外的任何隐藏状态。
type FighterStats struct {
	Name             string       `json:"name"`
	Grade            Grade        `json:"grade"`
	EnergyLevel      int          `json:"energyLevel"`
	CursedTechnique  string       `json:"cursedTechnique"`
	InnateTechnique  string       `json:"innateTechnique"`
	MaxTechnique     string       `json:"maxTechnique"`
	DomainExpansion  string       `json:"domainExpansion"`
	ReverseTechnique string       `json:"reverseTechnique,omitempty"`
	Weaknesses       Weaknesses   `json:"weaknesses"`
	BindingVows      []BindingVow `json:"bindingVows"`
	Wins             int          `json:"wins"`
	Losses           int          `json:"losses"`
	Ranking          int          `json:"ranking"`
}

// CharacterProfile 是请求评定（Insights）时提交给Oracle的角色侧写
type CharacterProfile struct {
	Identity struct {
		Name   string `json:"name"`
		Gender string `json:"gender"`
	} `json:"identity"`
	Appearance         string       `json:"appearance"`
	Personality        string       `json:"personality"`
	Backstory          string       `json:"backstory"`
	PowerSystem        string       `json:"powerSystem"`
	CursedTechnique    string       `json:"cursedTechnique"`
	InnateTechnique    string       `json:"innateTechnique"`
	MaxTechnique       string       `json:"maximumTechnique"`
	DomainExpansion    string       `json:"domainExpansion"`
	ReverseTechnique   string       `json:"reverseTechnique,omitempty"`
	EnergyLevel        int          `json:"energyLevel"`
	PowerLevelEstimate string       `json:"powerLevelEstimate"`
	BindingVows        []BindingVow `json:"bindingVows,omitempty"`
}

// validate 是包级共享的schema校验器
var validate = validator.New()

// ValidateSummary 校验对战裁决是否符合固定schema
func ValidateSummary(summary *BattleSummary) error {
	if err := validate.Struct(summary); err != nil {
		return fmt.Errorf("对战裁决不符合schema: %w", err)
	}
	return nil
}

// ValidateInsights 校验角色评定结果
func ValidateInsights(insights *CharacterInsights) error {
	if err := validate.Struct(insights); err != nil {
		return fmt.Errorf("角色评定不符合schema: %w", err)
	}
	return nil
}

// ValidateBindingVow 校验誓约生成结果
func ValidateBindingVow(vow *BindingVow) error {
	if err := validate.Struct(vow); err != nil {
		return fmt.Errorf("誓约不符合schema: %w", err)
	}
	return nil
}

// ValidateGeneratedCharacter 校验快速生成的角色设定
func ValidateGeneratedCharacter(c *GeneratedCharacter) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("生成的角色不符合schema: %w", err)
	}
	return nil
}
