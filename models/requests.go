package models

import (
	"fmt"
	"net/url"
	"strings"
)

// SupportedAnalysisTypes 支持的分析类型，未知类型在进入服务层之前拒绝
var SupportedAnalysisTypes = map[string]bool{
	"general_sentiment": true,
	"business_intent":   true,
}

// SentimentAnalysisRequest 批量情感分析请求结构体
type SentimentAnalysisRequest struct {
	Texts        []string `json:"texts" binding:"required"`
	AnalysisType string   `json:"analysis_type" binding:"required"`
}

func (r *SentimentAnalysisRequest) Validate() error {
	if len(r.Texts) < 1 || len(r.Texts) > 10 {
		return fmt.Errorf("texts 数量必须在1到10之间")
	}
	for i, t := range r.Texts {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("texts[%d] 不能为空", i)
		}
		if len(t) > 5000 {
			return fmt.Errorf("texts[%d] 超过5000字符上限", i)
		}
	}
	if !SupportedAnalysisTypes[r.AnalysisType] {
		return fmt.Errorf("不支持的 analysis_type: %s", r.AnalysisType)
	}
	return nil
}

// SummarizeRequest 文本摘要请求结构体
type SummarizeRequest struct {
	Text     string `json:"text" binding:"required"`
	MaxWords int    `json:"max_words"`
}

func (r *SummarizeRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("text 不能为空")
	}
	// 默认摘要长度50词
	if r.MaxWords == 0 {
		r.MaxWords = 50
	}
	if r.MaxWords < 10 || r.MaxWords > 300 {
		return fmt.Errorf("max_words 必须在10到300之间")
	}
	return nil
}

// AggregateAnalysisRequest 聚合情感分析请求结构体
// texts 与 url 互斥，必须且只能提供其一
type AggregateAnalysisRequest struct {
	Texts          []string `json:"texts"`
	URL            string   `json:"url"`
	AnalysisType   string   `json:"analysis_type"`
	ForceReanalyze bool     `json:"force_reanalyze"`
}

func (r *AggregateAnalysisRequest) Validate() error {
	hasTexts := len(r.Texts) > 0
	hasURL := strings.TrimSpace(r.URL) != ""
	if hasTexts == hasURL {
		return fmt.Errorf("必须且只能提供 texts 或 url 之一")
	}
	if hasTexts {
		if len(r.Texts) > 200 {
			return fmt.Errorf("texts 数量不能超过200")
		}
		for i, t := range r.Texts {
			if strings.TrimSpace(t) == "" {
				return fmt.Errorf("texts[%d] 不能为空", i)
			}
		}
	}
	if hasURL {
		parsed, err := url.Parse(r.URL)
		if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("无效的 url")
		}
	}
	// 聚合分析默认按商业意图维度分析
	if r.AnalysisType == "" {
		r.AnalysisType = "business_intent"
	}
	if !SupportedAnalysisTypes[r.AnalysisType] {
		return fmt.Errorf("不支持的 analysis_type: %s", r.AnalysisType)
	}
	return nil
}

// RegisterRequest 注册请求结构体
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest 登录请求结构体
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
