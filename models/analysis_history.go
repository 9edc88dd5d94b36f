package models

import (
	"time"
)

// AnalysisHistory 单条文本情感分析的历史记录（L2持久层）
// 记录在冷路径成功后创建，创建后不再修改
type AnalysisHistory struct {
	ID             string  `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID         string  `gorm:"type:varchar(50);index" json:"user_id"`
	TextInput      string  `gorm:"type:text" json:"text_input"` // 规范化后的输入文本
	SentimentType  string  `gorm:"type:varchar(20)" json:"sentiment_type"`
	Score          float64 `json:"score"`
	Notes          string  `gorm:"type:text" json:"notes"`
	AnalysisSource string  `gorm:"type:varchar(20)" json:"analysis_source"` // gemini / mock
	AnalysisType   string  `gorm:"type:varchar(50)" json:"analysis_type"`   // general_sentiment / business_intent
	CreatedAt      time.Time `json:"timestamp"`
}

func (AnalysisHistory) TableName() string {
	return "analysis_histories"
}
