package services

import (
	"context"
	"errors"
)

// 情感分类枚举值
const (
	SentimentPositive     = "POSITIVE"
	SentimentNegative     = "NEGATIVE"
	SentimentNeutral      = "NEUTRAL"
	SentimentSatisfied    = "SATISFIED"
	SentimentDissatisfied = "DISSATISFIED"
	SentimentInquiry      = "INQUIRY"
	SentimentOther        = "OTHER"
	SentimentError        = "ERROR" // 批量分析中单条失败的占位结果
)

// ErrQuotaExceeded 免费次数不足
var ErrQuotaExceeded = errors.New("免费使用次数已用完，请升级套餐")

// SentimentResult 单条文本的情感分析结果
type SentimentResult struct {
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
	Notes     string  `json:"notes"`
}

// AggregateResult 聚合情感分析结果
type AggregateResult struct {
	OverallSentiment  string   `json:"overall_sentiment"`
	SatisfactionScore int      `json:"satisfaction_score"` // 0-100
	KeyPositives      []string `json:"key_positives"`
	KeyNegatives      []string `json:"key_negatives"`
	Summary           string   `json:"summary"`
}

// LLMProcessor 对外部大模型服务的抽象
// 进程启动时按配置构造一个实例（gemini 或 mock），之后注入使用，不再切换
// 任何提供方错误（网络失败、响应格式错误、缺少必需字段）都作为单一错误返回，
// 内部不做重试，重试策略属于调用方
type LLMProcessor interface {
	AnalyzeSentiment(ctx context.Context, text string, analysisType string) (*SentimentResult, error)
	SummarizeText(ctx context.Context, text string, maxWords int) (string, error)
	AnalyzeAggregateSentiment(ctx context.Context, texts []string, analysisType string) (*AggregateResult, error)
	// Name 返回写入历史记录的来源标识，如 gemini、mock
	Name() string
}
