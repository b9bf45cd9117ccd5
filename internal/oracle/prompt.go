package oracle

import (
	"encoding/json"
	"strings"
)

// strictJSONDirective 要求模型只输出裸JSON，不接受任何其他格式
const strictJSONDirective = `Return ONLY valid minified JSON.
Never wrap the JSON in markdown fences or commentary.
Field names and casing must match the provided spec exactly.
If an optional field is unknown, output an empty array or omit it entirely.`

// battleSummarySpec 描述了对战裁决的JSON形状，与BattleSummary结构体一一对应
const battleSummarySpec = `BattleSummary object shape:
{
  "winner": "fighterA" or "fighterB" (MUST determine based on comparing all stats, techniques, weaknesses, and matchups),
  "title": string,
  "opening": string,
  "techniquesUsed": string[1..n],
  "weaknessesExploited": string[1..n],
  "domainMoments"?: string[0..n],
  "turningPoints": string[1..n],
  "finalBlow": string,
  "reasonForVictory": string (explain why the winner won based on the stats comparison),
  "injuries"?: string[0..n],
  "narrative": string (>=80 chars)
}`

// characterInsightsSpec 描述了角色评定的JSON形状
const characterInsightsSpec = `CharacterInsights object shape:
{
  "weaknesses": {
    "cursedTechniqueDrawbacks": string[1..n],
    "physicalLimitations": string[1..n],
    "personalityFlaws": string[1..n],
    "battleVulnerabilities": string[1..n]
  },
  "grade": one of ["GRADE_4","GRADE_3","GRADE_2","GRADE_1","SPECIAL_GRADE"],
  "balancingNotes"?: string[1..n] (wrap single note inside an array)
}`

// bindingVowSpec 描述了誓约细节的JSON形状
const bindingVowSpec = `BindingVowDetails object shape:
{
  "sacrifice": string,
  "enhancements": string[1..n],
  "conditions": string[1..n],
  "limitations": string[1..n],
  "sideEffects": string[1..n]
}`

// characterGenerationSpec 描述了快速生成角色的JSON形状
const characterGenerationSpec = `CharacterProfile object shape:
{
  "identity": {
    "name": string,
    "gender": string
  },
  "appearance": string (>=30 chars, detailed description),
  "personality": string (>=30 chars, detailed description),
  "backstory": string (>=60 chars, detailed lore),
  "powerSystem": string (>=20 chars, how they manipulate cursed energy),
  "cursedTechnique": string (>=40 chars, primary signature ability),
  "innateTechnique": string (>=40 chars, innate skill),
  "maximumTechnique": string (>=40 chars, trump card),
  "domainExpansion": string (>=40 chars, name and description),
  "reverseTechnique"?: string (>=20 chars, optional healing method),
  "energyLevel": number (1-9999),
  "powerLevelEstimate": string (short descriptor)
}`

// buildBattlePrompt 将双方的完整战斗快照组装成裁决请求
func buildBattlePrompt(fighterA, fighterB FighterStats) string {
	statsA, _ := json.MarshalIndent(fighterA, "", "  ")
	statsB, _ := json.MarshalIndent(fighterB, "", "  ")

	sections := []string{
		"You are an expert battle judge in the Jujutsu Kaisen universe.",
		"Analyze both fighters' complete stats, techniques, weaknesses, binding vows, and battle records.",
		"Determine the winner based on:\n- Power level and energy reserves\n- Technique complexity and versatility\n- Weaknesses and how they can be exploited\n- Binding vows and their strategic value\n- Battle experience (wins/losses/ranking)\n- Matchup advantages/disadvantages",
		"The winner should be determined by who would realistically win based on ALL factors, not just raw power.",
		battleSummarySpec,
		"CRITICAL: The 'winner' field MUST be either 'fighterA' or 'fighterB' based on your analysis of their stats.",
		"FIGHTER A STATS:\n" + string(statsA),
		"FIGHTER B STATS:\n" + string(statsB),
	}
	return strings.Join(sections, "\n\n")
}

// buildInsightsPrompt 组装角色评定请求
func buildInsightsPrompt(profile CharacterProfile) string {
	profileJSON, _ := json.MarshalIndent(profile, "", "  ")

	sections := []string{
		"You are an expert judge within the Jujutsu Kaisen universe.",
		"Given the following sorcerer profile, rate their grade and outline weaknesses.",
		characterInsightsSpec,
		"MANDATORY: Each weaknesses array MUST include at least one concrete, lore-accurate item.",
		`Remember: "weaknesses" MUST be an object with the four named arrays. Do not return an array there.`,
		"PROFILE:\n" + string(profileJSON),
	}
	return strings.Join(sections, "\n\n")
}

// buildBindingVowPrompt 组装誓约生成请求
func buildBindingVowPrompt(concept string) string {
	sections := []string{
		"You are crafting a Binding Vow for the Jujutsu Kaisen universe.",
		"Respect power balance and ensure all sections are lore-accurate.",
		bindingVowSpec,
		"BINDING VOW CONCEPT:\n" + concept,
	}
	return strings.Join(sections, "\n\n")
}

// buildGenerationPrompt 组装快速生成角色请求
func buildGenerationPrompt(prompt string) string {
	sections := []string{
		"You are an expert character creator in the Jujutsu Kaisen universe.",
		"Generate a complete, lore-accurate sorcerer character based on the user's prompt.",
		"Make the character unique and interesting while maintaining power balance.",
		characterGenerationSpec,
		"MANDATORY: All string fields must meet their minimum character requirements.",
		"MANDATORY: energyLevel must be between 1 and 9999.",
		"USER PROMPT:\n" + prompt,
	}
	return strings.Join(sections, "\n\n")
}
