package character

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindShrunkenField(t *testing.T) {
	current := &Character{
		Appearance:      strings.Repeat("a", 100),
		Backstory:       strings.Repeat("b", 200),
		CursedTechnique: strings.Repeat("c", 80),
	}

	t.Run("更短的提交被指出", func(t *testing.T) {
		in := &UpgradeCharacterInput{Backstory: strings.Repeat("b", 150)}
		assert.Equal(t, "backstory", findShrunkenField(current, in))
	})

	t.Run("更长的提交放行", func(t *testing.T) {
		in := &UpgradeCharacterInput{Backstory: strings.Repeat("b", 300)}
		assert.Equal(t, "", findShrunkenField(current, in))
	})

	t.Run("等长的提交放行", func(t *testing.T) {
		in := &UpgradeCharacterInput{Appearance: strings.Repeat("a", 100)}
		assert.Equal(t, "", findShrunkenField(current, in))
	})

	t.Run("未提交的字段不参与比较", func(t *testing.T) {
		in := &UpgradeCharacterInput{CursedTechnique: strings.Repeat("c", 90)}
		assert.Equal(t, "", findShrunkenField(current, in))
	})

	t.Run("已有字段为空时首次填写放行", func(t *testing.T) {
		in := &UpgradeCharacterInput{ReverseTechnique: strings.Repeat("r", 30)}
		assert.Equal(t, "", findShrunkenField(current, in))
	})
}

func TestEnergyGainForUpgrade(t *testing.T) {
	t.Run("单项强化", func(t *testing.T) {
		in := &UpgradeCharacterInput{DomainExpansion: "x"}
		assert.Equal(t, EnergyGainDomain, energyGainForUpgrade(in))
	})

	t.Run("咒术与生得领域合并为一项", func(t *testing.T) {
		in := &UpgradeCharacterInput{CursedTechnique: "x", InnateTechnique: "y"}
		assert.Equal(t, EnergyGainTechnique, energyGainForUpgrade(in))
	})

	t.Run("全量强化叠加", func(t *testing.T) {
		in := &UpgradeCharacterInput{
			Appearance:       "x",
			Personality:      "x",
			Backstory:        "x",
			PowerSystem:      "x",
			CursedTechnique:  "x",
			InnateTechnique:  "x",
			MaxTechnique:     "x",
			DomainExpansion:  "x",
			ReverseTechnique: "x",
		}
		want := EnergyGainDomain + EnergyGainReverse + EnergyGainMaxTech +
			EnergyGainTechnique + EnergyGainPowerSystem + EnergyGainGrowth
		assert.Equal(t, want, energyGainForUpgrade(in))
	})

	t.Run("空表单不增幅", func(t *testing.T) {
		in := &UpgradeCharacterInput{}
		assert.True(t, in.IsEmpty())
		assert.Equal(t, 0, energyGainForUpgrade(in))
	})
}

func TestCapEnergy(t *testing.T) {
	assert.Equal(t, 150, CapEnergy(100, 50))
	assert.Equal(t, MaxEnergyLevel, CapEnergy(MaxEnergyLevel-10, 50))
	assert.Equal(t, MaxEnergyLevel, CapEnergy(MaxEnergyLevel, EnergyGainBindingVow))
}
