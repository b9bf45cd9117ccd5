package oracle

import (
	"context"
	"fmt"
	"math/rand"
)

// gradeWeights 将等级映射为战力系数
var gradeWeights = map[Grade]float64{
	Grade4:       1,
	Grade3:       1.2,
	Grade2:       1.4,
	Grade1:       1.7,
	SpecialGrade: 2.1,
}

// gradeMultiplier 返回等级对应的战力系数，未知等级按1处理
func gradeMultiplier(grade Grade) float64 {
	if w, ok := gradeWeights[grade]; ok {
		return w
	}
	return 1
}

// weaknessPenalty 根据弱点总数计算减益，每个弱点-2%，上限20%
func weaknessPenalty(w Weaknesses) float64 {
	total := len(w.CursedTechniqueDrawbacks) +
		len(w.PhysicalLimitations) +
		len(w.PersonalityFlaws) +
		len(w.BattleVulnerabilities)

	penalty := float64(total) * 0.02
	if penalty > 0.2 {
		penalty = 0.2
	}
	return penalty
}

// computeBattleScore 计算一名角色的战斗评分。
// 技术描述越长视为越复杂，誓约数量提供固定加成，最后叠加随机波动。
func computeBattleScore(stats FighterStats, variance float64) float64 {
	techniqueComplexity := float64(len(stats.CursedTechnique))/5 +
		float64(len(stats.DomainExpansion))/6 +
		float64(len(stats.MaxTechnique))/7 +
		float64(len(stats.ReverseTechnique))/8

	vowBonus := float64(len(stats.BindingVows)) * 75

	base := float64(stats.EnergyLevel) + techniqueComplexity + vowBonus
	gradeAdjusted := base * gradeMultiplier(stats.Grade)
	afterWeakness := gradeAdjusted * (1 - weaknessPenalty(stats.Weaknesses))

	return afterWeakness * variance
}

// ScoreDecider 是Decider的确定性实现：用评分启发式代替生成式AI来裁决胜负。
// 它主要用于测试和离线环境，战报是模板化的。
type ScoreDecider struct {
	// rng 为nil时不叠加随机波动，裁决完全确定
	rng *rand.Rand
}

// NewScoreDecider 创建一个评分裁决器。seed相同则裁决序列相同。
func NewScoreDecider(seed int64) *ScoreDecider {
	return &ScoreDecider{rng: rand.New(rand.NewSource(seed))}
}

// NewDeterministicScoreDecider 创建一个完全无随机波动的评分裁决器
func NewDeterministicScoreDecider() *ScoreDecider {
	return &ScoreDecider{}
}

func (d *ScoreDecider) variance() float64 {
	if d.rng == nil {
		return 1
	}
	// 波动范围0.85~1.25，让弱者也有翻盘机会
	return 0.85 + d.rng.Float64()*0.4
}

// GenerateBattleSummary 比较双方评分并产出模板化战报
func (d *ScoreDecider) GenerateBattleSummary(_ context.Context, fighterA, fighterB FighterStats) (*BattleSummary, error) {
	scoreA := computeBattleScore(fighterA, d.variance())
	scoreB := computeBattleScore(fighterB, d.variance())

	winner, loser := fighterA, fighterB
	winnerTag := WinnerFighterA
	if scoreB > scoreA {
		winner, loser = fighterB, fighterA
		winnerTag = WinnerFighterB
	}

	summary := &BattleSummary{
		Winner:              winnerTag,
		Title:               fmt.Sprintf("%s vs %s", fighterA.Name, fighterB.Name),
		Opening:             fmt.Sprintf("%s and %s face each other under the rules of the Culling Game.", fighterA.Name, fighterB.Name),
		TechniquesUsed:      []string{winner.CursedTechnique, loser.CursedTechnique},
		WeaknessesExploited: firstWeakness(loser.Weaknesses),
		TurningPoints:       []string{fmt.Sprintf("%s reads the flow of cursed energy and seizes the initiative.", winner.Name)},
		FinalBlow:           fmt.Sprintf("%s lands a decisive strike that %s cannot answer.", winner.Name, loser.Name),
		ReasonForVictory:    fmt.Sprintf("%s held the statistical edge across grade, energy and technique complexity.", winner.Name),
		Narrative: fmt.Sprintf(
			"%s challenged %s in a battle settled on raw numbers. After an exchange of techniques and a decisive turning point, %s claimed victory by overwhelming the opponent's defenses.",
			fighterA.Name, fighterB.Name, winner.Name),
	}

	if err := ValidateSummary(summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func firstWeakness(w Weaknesses) []string {
	for _, list := range [][]string{
		w.BattleVulnerabilities,
		w.CursedTechniqueDrawbacks,
		w.PhysicalLimitations,
		w.PersonalityFlaws,
	} {
		if len(list) > 0 {
			return []string{list[0]}
		}
	}
	return []string{"Unknown vulnerability"}
}
