package models

import (
	"time"
)

// SummarizationHistory 文本摘要的历史记录，写入后不可修改
type SummarizationHistory struct {
	ID                  string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID              string    `gorm:"type:varchar(50);index" json:"user_id"`
	TextInput           string    `gorm:"type:text" json:"text_input"` // 规范化后的输入文本
	SummarizedText      string    `gorm:"type:text" json:"summarized_text"`
	MaxWords            int       `json:"max_words"`
	SummarizationSource string    `gorm:"type:varchar(20)" json:"summarization_source"`
	CreatedAt           time.Time `json:"timestamp"`
}

func (SummarizationHistory) TableName() string {
	return "summarization_histories"
}
