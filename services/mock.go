package services

import (
	"context"
	"fmt"
)

// MockProcessor 确定性的测试处理器，不发起任何网络请求
// 用于离线开发和测试
type MockProcessor struct{}

func NewMockProcessor() *MockProcessor {
	return &MockProcessor{}
}

func (p *MockProcessor) Name() string {
	return "mock"
}

func (p *MockProcessor) AnalyzeSentiment(ctx context.Context, text string, analysisType string) (*SentimentResult, error) {
	return &SentimentResult{
		Sentiment: SentimentPositive,
		Score:     0.98,
		Notes:     "This is a mock response from the test processor.",
	}, nil
}

func (p *MockProcessor) SummarizeText(ctx context.Context, text string, maxWords int) (string, error) {
	return fmt.Sprintf("This is a mock summary for the input text with a length of about %d words.", maxWords), nil
}

func (p *MockProcessor) AnalyzeAggregateSentiment(ctx context.Context, texts []string, analysisType string) (*AggregateResult, error) {
	return &AggregateResult{
		OverallSentiment:  SentimentSatisfied,
		SatisfactionScore: 80,
		KeyPositives:      []string{"mock positive theme"},
		KeyNegatives:      []string{"mock negative theme"},
		Summary:           fmt.Sprintf("Mock aggregate summary over %d comments.", len(texts)),
	}, nil
}
