package character

// CreateCharacterInput 是角色创建（onboarding）表单。
// 各字段的最小长度保证角色设定有足够的细节供Oracle评定。
type CreateCharacterInput struct {
	Name               string `json:"name" binding:"required,min=2"`
	Gender             string `json:"gender" binding:"required"`
	Country            string `json:"country" binding:"required,min=2"`
	Appearance         string `json:"appearance" binding:"required,min=30"`
	Personality        string `json:"personality" binding:"required,min=30"`
	Backstory          string `json:"backstory" binding:"required,min=60"`
	PowerSystem        string `json:"powerSystem" binding:"required,min=10"`
	CursedTechnique    string `json:"cursedTechnique" binding:"required,min=40"`
	InnateTechnique    string `json:"innateTechnique" binding:"required,min=40"`
	MaxTechnique       string `json:"maxTechnique" binding:"required,min=40"`
	DomainExpansion    string `json:"domainExpansion" binding:"required,min=40"`
	ReverseTechnique   string `json:"reverseTechnique" binding:"omitempty"`
	EnergyLevel        int    `json:"energyLevel" binding:"required,min=1,max=9999"`
	PowerLevelEstimate string `json:"powerLevelEstimate" binding:"required,min=5"`
}

// UpgradeCharacterInput 是角色进化表单，所有字段都是可选的，
// 但至少要提交一项。提交的叙事字段不允许比已有版本更短。
type UpgradeCharacterInput struct {
	Appearance         string `json:"appearance" binding:"omitempty,min=30"`
	Personality        string `json:"personality" binding:"omitempty,min=30"`
	Backstory          string `json:"backstory" binding:"omitempty,min=60"`
	PowerSystem        string `json:"powerSystem" binding:"omitempty,min=20"`
	CursedTechnique    string `json:"cursedTechnique" binding:"omitempty,min=40"`
	InnateTechnique    string `json:"innateTechnique" binding:"omitempty,min=40"`
	MaxTechnique       string `json:"maxTechnique" binding:"omitempty,min=40"`
	DomainExpansion    string `json:"domainExpansion" binding:"omitempty,min=40"`
	ReverseTechnique   string `json:"reverseTechnique" binding:"omitempty,min=20"`
	PowerLevelEstimate string `json:"powerLevelEstimate" binding:"omitempty,min=5"`
}

// BindingVowConceptInput 是誓约概念表单，细节交给Oracle展开
type BindingVowConceptInput struct {
	Name    string `json:"name" binding:"required,min=2,max=60"`
	Concept string `json:"concept" binding:"required,min=30"`
}

// GenerateCharacterInput 是快速生成模式的一句话描述
type GenerateCharacterInput struct {
	Prompt string `json:"prompt" binding:"required,min=10"`
}

// IsEmpty 判断进化表单是否没有提交任何内容
func (in *UpgradeCharacterInput) IsEmpty() bool {
	return in.Appearance == "" && in.Personality == "" && in.Backstory == "" &&
		in.PowerSystem == "" && in.CursedTechnique == "" && in.InnateTechnique == "" &&
		in.MaxTechnique == "" && in.DomainExpansion == "" && in.ReverseTechnique == "" &&
		in.PowerLevelEstimate == ""
}

// findShrunkenField 返回第一个比已有版本更短的叙事字段名。
// 设定深度只许增加，不许缩水。
func findShrunkenField(current *Character, in *UpgradeCharacterInput) string {
	checks := []struct {
		field    string
		proposed string
		existing string
	}{
		{"appearance", in.Appearance, current.Appearance},
		{"personality", in.Personality, current.Personality},
		{"backstory", in.Backstory, current.Backstory},
		{"powerSystem", in.PowerSystem, current.PowerSystem},
		{"cursedTechnique", in.CursedTechnique, current.CursedTechnique},
		{"innateTechnique", in.InnateTechnique, current.InnateTechnique},
		{"maxTechnique", in.MaxTechnique, current.MaxTechnique},
		{"domainExpansion", in.DomainExpansion, current.DomainExpansion},
		{"reverseTechnique", in.ReverseTechnique, current.ReverseTechnique},
	}

	for _, check := range checks {
		if check.proposed == "" || check.existing == "" {
			continue
		}
		if len(check.proposed) < len(check.existing) {
			return check.field
		}
	}
	return ""
}

// energyGainForUpgrade 根据本次进化涉及的强化项计算咒力增幅
func energyGainForUpgrade(in *UpgradeCharacterInput) int {
	gain := 0
	if in.DomainExpansion != "" {
		gain += EnergyGainDomain
	}
	if in.ReverseTechnique != "" {
		gain += EnergyGainReverse
	}
	if in.MaxTechnique != "" {
		gain += EnergyGainMaxTech
	}
	if in.CursedTechnique != "" || in.InnateTechnique != "" {
		gain += EnergyGainTechnique
	}
	if in.PowerSystem != "" {
		gain += EnergyGainPowerSystem
	}
	if in.Backstory != "" || in.Personality != "" {
		gain += EnergyGainGrowth
	}
	return gain
}
