package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// GeminiProcessor 基于Google Gemini的线上处理器
type GeminiProcessor struct {
	model llms.Model
}

// NewGeminiProcessor 创建Gemini处理器，进程启动时调用一次
func NewGeminiProcessor(ctx context.Context, apiKey, modelName string) (*GeminiProcessor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("必须提供 GEMINI_API_KEY")
	}

	model, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("创建Gemini客户端失败: %w", err)
	}

	return &GeminiProcessor{model: model}, nil
}

func (p *GeminiProcessor) Name() string {
	return "gemini"
}

func (p *GeminiProcessor) AnalyzeSentiment(ctx context.Context, text string, analysisType string) (*SentimentResult, error) {
	template := sentimentGeneralPrompt
	if analysisType == "business_intent" {
		template = sentimentBusinessPrompt
	}

	raw, err := llms.GenerateFromSinglePrompt(ctx, p.model, fmt.Sprintf(template, text),
		llms.WithTemperature(0.2))
	if err != nil {
		return nil, fmt.Errorf("Gemini情感分析调用失败: %w", err)
	}

	var data struct {
		Sentiment string  `json:"sentiment"`
		Label     string  `json:"label"`
		Score     float64 `json:"score"`
		Notes     string  `json:"notes"`
	}
	if err := json.Unmarshal([]byte(stripJSONFence(raw)), &data); err != nil {
		return nil, fmt.Errorf("解析Gemini响应失败: %w", err)
	}

	// 偶见模型用 label 代替 sentiment 键
	sentiment := data.Sentiment
	if sentiment == "" {
		sentiment = data.Label
	}
	if sentiment == "" {
		return nil, fmt.Errorf("Gemini响应缺少 sentiment 字段")
	}

	notes := data.Notes
	if notes == "" {
		notes = "Analyzed by gemini"
	}

	return &SentimentResult{
		Sentiment: strings.ToUpper(sentiment),
		Score:     data.Score,
		Notes:     notes,
	}, nil
}

func (p *GeminiProcessor) SummarizeText(ctx context.Context, text string, maxWords int) (string, error) {
	raw, err := llms.GenerateFromSinglePrompt(ctx, p.model, fmt.Sprintf(summarizationPrompt, maxWords, text),
		llms.WithTemperature(0.5))
	if err != nil {
		return "", fmt.Errorf("Gemini摘要调用失败: %w", err)
	}
	return strings.TrimSpace(raw), nil
}

func (p *GeminiProcessor) AnalyzeAggregateSentiment(ctx context.Context, texts []string, analysisType string) (*AggregateResult, error) {
	var sb strings.Builder
	for i, t := range texts {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, t)
	}

	raw, err := llms.GenerateFromSinglePrompt(ctx, p.model, fmt.Sprintf(aggregatePrompt, analysisType, sb.String()),
		llms.WithTemperature(0.2))
	if err != nil {
		return nil, fmt.Errorf("Gemini聚合分析调用失败: %w", err)
	}

	var result AggregateResult
	if err := json.Unmarshal([]byte(stripJSONFence(raw)), &result); err != nil {
		return nil, fmt.Errorf("解析Gemini聚合响应失败: %w", err)
	}
	if result.OverallSentiment == "" {
		return nil, fmt.Errorf("Gemini聚合响应缺少 overall_sentiment 字段")
	}
	if result.SatisfactionScore < 0 || result.SatisfactionScore > 100 {
		return nil, fmt.Errorf("Gemini聚合响应 satisfaction_score 超出范围: %d", result.SatisfactionScore)
	}
	result.OverallSentiment = strings.ToUpper(result.OverallSentiment)

	return &result, nil
}

// stripJSONFence 去掉模型偶尔包裹的 ```json 代码块标记
func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}
