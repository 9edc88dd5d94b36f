package models

import (
	"time"
)

// AggregateAnalysisHistory 聚合（多文本）情感分析的历史记录
// URL 与 InputTexts 二选一决定来源；指纹基于规范化并排序后的文本计算，
// 与提交顺序无关，InputTexts 则保留调用方的原始顺序用于展示
type AggregateAnalysisHistory struct {
	ID                string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID            string     `gorm:"type:varchar(50);index" json:"user_id"`
	URL               *string    `gorm:"type:varchar(2048)" json:"url,omitempty"`
	InputFingerprint  string     `gorm:"type:varchar(64);index:idx_aggregate_fp_type,priority:1" json:"input_fingerprint"`
	InputTexts        StringList `gorm:"type:json" json:"input_texts"`
	OverallSentiment  string     `gorm:"type:varchar(20)" json:"overall_sentiment"`
	SatisfactionScore int        `json:"satisfaction_score"` // 0-100
	KeyPositives      StringList `gorm:"type:json" json:"key_positives"`
	KeyNegatives      StringList `gorm:"type:json" json:"key_negatives"`
	Summary           string     `gorm:"type:text" json:"summary"`
	AnalysisSource    string     `gorm:"type:varchar(20)" json:"analysis_source"`
	AnalysisType      string     `gorm:"type:varchar(50);index:idx_aggregate_fp_type,priority:2" json:"analysis_type"`
	CreatedAt         time.Time  `json:"timestamp"`
}

func (AggregateAnalysisHistory) TableName() string {
	return "aggregate_analysis_histories"
}
