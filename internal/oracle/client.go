package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/culling-game-backend/internal/platform/config"
	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
	"github.com/sashabaranov/go-openai"
)

// Decider 是对战裁决能力的抽象：给定双方完整快照，产出胜者和战报。
// 它不保证确定性——同样的两名角色在不同调用中可能得到不同的裁决，
// 这是设计属性而非缺陷。实现可以换成确定性的评分函数（见ScoreDecider）。
type Decider interface {
	GenerateBattleSummary(ctx context.Context, fighterA, fighterB FighterStats) (*BattleSummary, error)
}

// Generator 是角色相关生成能力的抽象，供onboarding和进化流程使用
type Generator interface {
	GenerateCharacterInsights(ctx context.Context, profile CharacterProfile) (*CharacterInsights, error)
	GenerateBindingVowDetails(ctx context.Context, concept string) (*BindingVow, error)
	GenerateCharacterFromPrompt(ctx context.Context, prompt string) (*GeneratedCharacter, error)
}

// Client 通过OpenAI兼容接口调用外部生成式AI服务。
// 它是Decider和Generator的默认实现。
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewClient 创建一个新的Oracle客户端
func NewClient(cfg config.OracleConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("未配置Oracle API密钥")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL

	return &Client{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, nil
}

// generateJSON 发起一次严格JSON请求并返回清理后的JSON文本。
// 解析或schema失败对本次调用是致命的，这里不做自动重试——
// 每次对战尝试都是一次全新的、独立的Oracle调用。
func (c *Client) generateJSON(ctx context.Context, prompt string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: strictJSONDirective},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.4,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Oracle调用失败: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("Oracle没有返回任何候选结果")
	}

	candidate, err := extractJSONCandidate(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return []byte(candidate), nil
}

// GenerateBattleSummary 请求Oracle裁决一场1v1对战
func (c *Client) GenerateBattleSummary(ctx context.Context, fighterA, fighterB FighterStats) (*BattleSummary, error) {
	raw, err := c.generateJSON(ctx, buildBattlePrompt(fighterA, fighterB))
	if err != nil {
		return nil, err
	}

	var summary BattleSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("对战裁决不是合法的JSON: %w", err)
	}
	if err := ValidateSummary(&summary); err != nil {
		return nil, err
	}

	logger.L.Infow("Oracle裁决完成", "winner", summary.Winner, "title", summary.Title)
	return &summary, nil
}

// GenerateCharacterInsights 请求Oracle评定角色的等级和弱点
func (c *Client) GenerateCharacterInsights(ctx context.Context, profile CharacterProfile) (*CharacterInsights, error) {
	raw, err := c.generateJSON(ctx, buildInsightsPrompt(profile))
	if err != nil {
		return nil, err
	}

	var insights CharacterInsights
	if err := json.Unmarshal(raw, &insights); err != nil {
		return nil, fmt.Errorf("角色评定不是合法的JSON: %w", err)
	}
	if err := ValidateInsights(&insights); err != nil {
		return nil, err
	}
	return &insights, nil
}

// GenerateBindingVowDetails 请求Oracle将一个誓约概念展开为完整细节
func (c *Client) GenerateBindingVowDetails(ctx context.Context, concept string) (*BindingVow, error) {
	raw, err := c.generateJSON(ctx, buildBindingVowPrompt(concept))
	if err != nil {
		return nil, err
	}

	var vow BindingVow
	if err := json.Unmarshal(raw, &vow); err != nil {
		return nil, fmt.Errorf("誓约细节不是合法的JSON: %w", err)
	}
	if err := ValidateBindingVow(&vow); err != nil {
		return nil, err
	}
	return &vow, nil
}

// GenerateCharacterFromPrompt 根据用户的一句话描述生成完整角色设定
func (c *Client) GenerateCharacterFromPrompt(ctx context.Context, prompt string) (*GeneratedCharacter, error) {
	raw, err := c.generateJSON(ctx, buildGenerationPrompt(prompt))
	if err != nil {
		return nil, err
	}

	var generated GeneratedCharacter
	if err := json.Unmarshal(raw, &generated); err != nil {
		return nil, fmt.Errorf("生成的角色不是合法的JSON: %w", err)
	}
	if err := ValidateGeneratedCharacter(&generated); err != nil {
		return nil, err
	}
	return &generated, nil
}
