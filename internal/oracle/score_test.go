package oracle

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWeaknesses() Weaknesses {
	return Weaknesses{
		CursedTechniqueDrawbacks: []string{"High cost"},
		PhysicalLimitations:      []string{"Low stamina"},
		PersonalityFlaws:         []string{"Arrogant"},
		BattleVulnerabilities:    []string{"Slow start"},
	}
}

func testFighter(name string, grade Grade, energy int) FighterStats {
	return FighterStats{
		Name:            name,
		Grade:           grade,
		EnergyLevel:     energy,
		CursedTechnique: strings.Repeat("A cursed technique description. ", 2),
		InnateTechnique: strings.Repeat("An innate technique description. ", 2),
		MaxTechnique:    strings.Repeat("A maximum technique description. ", 2),
		DomainExpansion: strings.Repeat("A domain expansion description. ", 2),
		Weaknesses:      testWeaknesses(),
	}
}

func TestScoreDeciderDeterministic(t *testing.T) {
	strong := testFighter("Strong", SpecialGrade, 5000)
	weak := testFighter("Weak", Grade4, 100)

	t.Run("无波动时强者必胜", func(t *testing.T) {
		d := NewDeterministicScoreDecider()
		summary, err := d.GenerateBattleSummary(context.Background(), strong, weak)
		require.NoError(t, err)
		assert.Equal(t, WinnerFighterA, summary.Winner)

		// 换边后胜者标签跟着换
		summary, err = d.GenerateBattleSummary(context.Background(), weak, strong)
		require.NoError(t, err)
		assert.Equal(t, WinnerFighterB, summary.Winner)
	})

	t.Run("相同seed裁决序列一致", func(t *testing.T) {
		a := testFighter("A", Grade2, 1200)
		b := testFighter("B", Grade2, 1180)

		d1 := NewScoreDecider(42)
		d2 := NewScoreDecider(42)
		for i := 0; i < 10; i++ {
			s1, err := d1.GenerateBattleSummary(context.Background(), a, b)
			require.NoError(t, err)
			s2, err := d2.GenerateBattleSummary(context.Background(), a, b)
			require.NoError(t, err)
			assert.Equal(t, s1.Winner, s2.Winner)
		}
	})

	t.Run("战报通过schema校验", func(t *testing.T) {
		d := NewScoreDecider(7)
		summary, err := d.GenerateBattleSummary(context.Background(), strong, weak)
		require.NoError(t, err)
		require.NoError(t, ValidateSummary(summary))
		assert.Contains(t, summary.Title, "Strong")
		assert.Contains(t, summary.Title, "Weak")
	})
}

func TestComputeBattleScore(t *testing.T) {
	t.Run("等级系数放大基础分", func(t *testing.T) {
		base := testFighter("X", Grade4, 1000)
		special := testFighter("X", SpecialGrade, 1000)
		assert.Greater(t, computeBattleScore(special, 1), computeBattleScore(base, 1))
	})

	t.Run("誓约提供固定加成", func(t *testing.T) {
		plain := testFighter("X", Grade2, 1000)
		vowed := testFighter("X", Grade2, 1000)
		vowed.BindingVows = []BindingVow{{Name: "Oath", Sacrifice: "s"}}
		assert.Greater(t, computeBattleScore(vowed, 1), computeBattleScore(plain, 1))
	})

	t.Run("弱点减益有上限", func(t *testing.T) {
		w := testWeaknesses()
		for i := 0; i < 20; i++ {
			w.BattleVulnerabilities = append(w.BattleVulnerabilities, "extra")
		}
		assert.Equal(t, 0.2, weaknessPenalty(w))
	})
}
