package models

// SentimentAnalysisResult 单条文本的分析结果，按输入顺序逐条返回
type SentimentAnalysisResult struct {
	TextInput     string  `json:"text_input"`
	SentimentType string  `json:"sentiment_type"` // 失败的条目为 ERROR
	Score         float64 `json:"score"`
	Notes         string  `json:"notes"`
}

// SummarizeResponse 摘要响应结构体
type SummarizeResponse struct {
	OriginalText   string `json:"original_text"`
	SummarizedText string `json:"summarized_text"`
}

// AggregateAnalysisResponse 聚合分析响应结构体
type AggregateAnalysisResponse struct {
	OverallSentiment  string   `json:"overall_sentiment"`
	SatisfactionScore int      `json:"satisfaction_score"`
	KeyPositives      []string `json:"key_positives"`
	KeyNegatives      []string `json:"key_negatives"`
	Summary           string   `json:"summary"`
}

// PreviouslyAnalyzedResponse URL此前已分析过时的短路响应
type PreviouslyAnalyzedResponse struct {
	Status         string                    `json:"status"` // previously_analyzed
	Message        string                    `json:"message"`
	PreviousResult AggregateAnalysisResponse `json:"previous_result"`
}

// UserResponse 用户响应结构体
type UserResponse struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	IsPro             bool   `json:"isPro"`
	FreeAnalysisCount int    `json:"freeAnalysisCount"`
}
