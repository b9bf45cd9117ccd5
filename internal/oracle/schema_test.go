package oracle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSummary() *BattleSummary {
	return &BattleSummary{
		Winner:              WinnerFighterA,
		Title:               "Gojo vs Sukuna",
		Opening:             "The two strongest meet at last.",
		TechniquesUsed:      []string{"Hollow Purple"},
		WeaknessesExploited: []string{"Overconfidence"},
		TurningPoints:       []string{"The domain clash shattered the barrier."},
		FinalBlow:           "A point-blank maximum output strike.",
		ReasonForVictory:    "Superior cursed energy reserves and technique control.",
		Narrative:           strings.Repeat("The battle raged across the shattered city. ", 3),
	}
}

func TestValidateSummary(t *testing.T) {
	t.Run("完整的战报通过校验", func(t *testing.T) {
		require.NoError(t, ValidateSummary(validSummary()))
	})

	t.Run("非法的胜者标签被拒绝", func(t *testing.T) {
		s := validSummary()
		s.Winner = "fighterC"
		assert.Error(t, ValidateSummary(s))
	})

	t.Run("过短的战报正文被拒绝", func(t *testing.T) {
		s := validSummary()
		s.Narrative = "A won."
		assert.Error(t, ValidateSummary(s))
	})

	t.Run("空的转折点列表被拒绝", func(t *testing.T) {
		s := validSummary()
		s.TurningPoints = nil
		assert.Error(t, ValidateSummary(s))
	})

	t.Run("可选列表允许为空", func(t *testing.T) {
		s := validSummary()
		s.DomainMoments = nil
		s.Injuries = nil
		assert.NoError(t, ValidateSummary(s))
	})
}

func TestValidateInsights(t *testing.T) {
	valid := func() *CharacterInsights {
		return &CharacterInsights{
			Weaknesses: Weaknesses{
				CursedTechniqueDrawbacks: []string{"High energy cost"},
				PhysicalLimitations:      []string{"Stamina drain"},
				PersonalityFlaws:         []string{"Overconfidence"},
				BattleVulnerabilities:    []string{"Predictable follow-ups"},
			},
			Grade: Grade1,
		}
	}

	t.Run("完整的评定通过校验", func(t *testing.T) {
		require.NoError(t, ValidateInsights(valid()))
	})

	t.Run("未知等级被拒绝", func(t *testing.T) {
		i := valid()
		i.Grade = "GRADE_0"
		assert.Error(t, ValidateInsights(i))
	})

	t.Run("弱点列表不允许为空", func(t *testing.T) {
		i := valid()
		i.Weaknesses.BattleVulnerabilities = nil
		assert.Error(t, ValidateInsights(i))
	})
}

func TestValidateBindingVow(t *testing.T) {
	vow := &BindingVow{
		Sacrifice:    "Seals the domain for one day after use",
		Enhancements: []string{"Doubles output for thirty seconds"},
		Conditions:   []string{"Must declare the vow aloud"},
		Limitations:  []string{"Unusable against non-sorcerers"},
		SideEffects:  []string{"Severe cursed energy exhaustion"},
	}
	require.NoError(t, ValidateBindingVow(vow))

	vow.Enhancements = nil
	assert.Error(t, ValidateBindingVow(vow))
}
