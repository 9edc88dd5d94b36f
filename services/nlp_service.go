package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jaliliB21/NLP-API-Service/config"
	"github.com/jaliliB21/NLP-API-Service/models"
	"github.com/jaliliB21/NLP-API-Service/utils"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ResultCacheTTL 所有L1缓存条目统一24小时过期，无滑动续期
const ResultCacheTTL = 24 * time.Hour

// ErrTextExtraction URL抓取或文本抽取失败，属于请求层面的问题而非网关故障
var ErrTextExtraction = errors.New("无法从URL提取文本")

// NLPService 两级缓存管道的核心编排
// 每个请求单元先查L1（Redis），再查L2（历史表），都未命中才走冷路径调用LLM，
// 冷路径成功后先写历史再回填L1。相同未缓存键的并发请求可能各自走一次冷路径
// （无请求合并），只保证缓存最终收敛
type NLPService struct {
	processor LLMProcessor
}

// NewNLPService 创建服务实例，处理器由组装点注入，进程内唯一
func NewNLPService(processor LLMProcessor) *NLPService {
	return &NLPService{processor: processor}
}

// AnalyzeTexts 批量情感分析
// 每条文本独立走一遍缓存状态机，结果顺序与输入顺序一致
// 配额在首次需要冷路径时按整批文本数扣减一次，全部命中缓存则不扣
// 单条文本的网关失败只影响该条（标记为ERROR），不中断其余文本
func (s *NLPService) AnalyzeTexts(ctx context.Context, userID string, texts []string, analysisType string) ([]models.SentimentAnalysisResult, error) {
	results := make([]models.SentimentAnalysisResult, 0, len(texts))
	charged := false

	for _, text := range texts {
		normalized := utils.NormalizeText(text)
		cacheKey := fmt.Sprintf("sentiment:%s:%s", analysisType, utils.TextHash(text))

		// L1 命中
		var cached SentimentResult
		if s.cacheGet(ctx, cacheKey, &cached) {
			results = append(results, sentimentResponse(text, &cached))
			continue
		}

		// L2 命中：回填L1后返回，不再计费也不再写历史
		var record models.AnalysisHistory
		err := config.DB.Where("user_id = ? AND text_input = ? AND analysis_type = ?",
			userID, normalized, analysisType).First(&record).Error
		if err == nil {
			result := &SentimentResult{
				Sentiment: record.SentimentType,
				Score:     record.Score,
				Notes:     record.Notes,
			}
			s.cacheSet(ctx, cacheKey, result)
			results = append(results, sentimentResponse(text, result))
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			// 存储读取失败按未命中处理，继续走冷路径
			config.Logger.Errorw("查询分析历史失败", "error", err, "uid", userID)
		}

		// 冷路径：首次需要时对整批扣减配额
		if !charged {
			if err := CheckAndDeductUsage(config.DB, userID, len(texts)); err != nil {
				return nil, err
			}
			charged = true
		}

		result, err := s.processor.AnalyzeSentiment(ctx, text, analysisType)
		if err != nil {
			config.Logger.Errorw("情感分析网关调用失败",
				"error", err,
				"uid", userID,
				"analysisType", analysisType,
			)
			results = append(results, models.SentimentAnalysisResult{
				TextInput:     text,
				SentimentType: SentimentError,
				Score:         0,
				Notes:         err.Error(),
			})
			continue
		}

		// 先写历史（L2权威），再回填L1
		history := models.AnalysisHistory{
			ID:             utils.GenerateID(),
			UserID:         userID,
			TextInput:      normalized,
			SentimentType:  result.Sentiment,
			Score:          result.Score,
			Notes:          result.Notes,
			AnalysisSource: s.processor.Name(),
			AnalysisType:   analysisType,
		}
		if err := config.DB.Create(&history).Error; err != nil {
			config.Logger.Errorw("写入分析历史失败", "error", err, "uid", userID)
		}
		s.cacheSet(ctx, cacheKey, result)

		results = append(results, sentimentResponse(text, result))
	}

	return results, nil
}

// Summarize 文本摘要，整个请求作为一个缓存单元
func (s *NLPService) Summarize(ctx context.Context, userID string, text string, maxWords int) (string, error) {
	normalized := utils.NormalizeText(text)
	cacheKey := fmt.Sprintf("summary:%d:%s", maxWords, utils.TextHash(text))

	var cached string
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	var record models.SummarizationHistory
	err := config.DB.Where("user_id = ? AND text_input = ? AND max_words = ?",
		userID, normalized, maxWords).First(&record).Error
	if err == nil {
		s.cacheSet(ctx, cacheKey, record.SummarizedText)
		return record.SummarizedText, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		config.Logger.Errorw("查询摘要历史失败", "error", err, "uid", userID)
	}

	if err := CheckAndDeductUsage(config.DB, userID, 1); err != nil {
		return "", err
	}

	summary, err := s.processor.SummarizeText(ctx, text, maxWords)
	if err != nil {
		return "", err
	}

	history := models.SummarizationHistory{
		ID:                  utils.GenerateID(),
		UserID:              userID,
		TextInput:           normalized,
		SummarizedText:      summary,
		MaxWords:            maxWords,
		SummarizationSource: s.processor.Name(),
	}
	if err := config.DB.Create(&history).Error; err != nil {
		config.Logger.Errorw("写入摘要历史失败", "error", err, "uid", userID)
	}
	s.cacheSet(ctx, cacheKey, summary)

	return summary, nil
}

// AnalyzeAggregate 聚合情感分析
// URL请求在进入状态机之前先查本用户是否分析过该URL，命中则直接短路返回
// （previouslyAnalyzed 为 true）；force_reanalyze 跳过该短路，走正常的指纹管道
// 指纹与用户无关：内容相同的聚合结果在用户之间共享
func (s *NLPService) AnalyzeAggregate(ctx context.Context, userID string, req *models.AggregateAnalysisRequest) (*models.AggregateAnalysisResponse, bool, error) {
	var urlPtr *string
	if req.URL != "" {
		urlPtr = &req.URL

		if !req.ForceReanalyze {
			var prior models.AggregateAnalysisHistory
			err := config.DB.Where("user_id = ? AND url = ?", userID, req.URL).
				Order("created_at desc").First(&prior).Error
			if err == nil {
				return aggregateResponseFromHistory(&prior), true, nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				config.Logger.Errorw("查询URL分析历史失败", "error", err, "uid", userID, "url", req.URL)
			}
		}
	}

	texts := req.Texts
	if req.URL != "" {
		fetched, err := FetchTextsFromURL(ctx, req.URL)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrTextExtraction, err)
		}
		texts = fetched
	}

	fingerprint := utils.GenerateFingerprint(texts)
	cacheKey := fmt.Sprintf("aggregate:%s:%s", req.AnalysisType, fingerprint)

	var cached models.AggregateAnalysisResponse
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, false, nil
	}

	// L2按指纹匹配，不限定用户
	var record models.AggregateAnalysisHistory
	err := config.DB.Where("input_fingerprint = ? AND analysis_type = ?",
		fingerprint, req.AnalysisType).First(&record).Error
	if err == nil {
		resp := aggregateResponseFromHistory(&record)
		s.cacheSet(ctx, cacheKey, resp)
		return resp, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		config.Logger.Errorw("查询聚合分析历史失败", "error", err, "fingerprint", fingerprint)
	}

	if err := CheckAndDeductUsage(config.DB, userID, 1); err != nil {
		return nil, false, err
	}

	result, err := s.processor.AnalyzeAggregateSentiment(ctx, texts, req.AnalysisType)
	if err != nil {
		return nil, false, err
	}

	history := models.AggregateAnalysisHistory{
		ID:                utils.GenerateID(),
		UserID:            userID,
		URL:               urlPtr,
		InputFingerprint:  fingerprint,
		InputTexts:        models.StringList(texts),
		OverallSentiment:  result.OverallSentiment,
		SatisfactionScore: result.SatisfactionScore,
		KeyPositives:      models.StringList(result.KeyPositives),
		KeyNegatives:      models.StringList(result.KeyNegatives),
		Summary:           result.Summary,
		AnalysisSource:    s.processor.Name(),
		AnalysisType:      req.AnalysisType,
	}
	if err := config.DB.Create(&history).Error; err != nil {
		config.Logger.Errorw("写入聚合分析历史失败", "error", err, "uid", userID)
	}

	resp := &models.AggregateAnalysisResponse{
		OverallSentiment:  result.OverallSentiment,
		SatisfactionScore: result.SatisfactionScore,
		KeyPositives:      result.KeyPositives,
		KeyNegatives:      result.KeyNegatives,
		Summary:           result.Summary,
	}
	s.cacheSet(ctx, cacheKey, resp)

	return resp, false, nil
}

// cacheGet 从L1读取并反序列化，任何错误都按未命中处理
func (s *NLPService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	raw, err := config.RedisClient.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			config.Logger.Errorw("读取L1缓存失败", "error", err, "key", key)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		config.Logger.Errorw("反序列化L1缓存失败", "error", err, "key", key)
		return false
	}
	return true
}

// cacheSet 序列化并写入L1，失败只记录日志
func (s *NLPService) cacheSet(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		config.Logger.Errorw("序列化L1缓存失败", "error", err, "key", key)
		return
	}
	if err := config.RedisClient.Set(ctx, key, string(raw), ResultCacheTTL).Err(); err != nil {
		config.Logger.Errorw("写入L1缓存失败", "error", err, "key", key)
	}
}

func sentimentResponse(text string, result *SentimentResult) models.SentimentAnalysisResult {
	return models.SentimentAnalysisResult{
		TextInput:     text,
		SentimentType: result.Sentiment,
		Score:         result.Score,
		Notes:         result.Notes,
	}
}

func aggregateResponseFromHistory(record *models.AggregateAnalysisHistory) *models.AggregateAnalysisResponse {
	return &models.AggregateAnalysisResponse{
		OverallSentiment:  record.OverallSentiment,
		SatisfactionScore: record.SatisfactionScore,
		KeyPositives:      record.KeyPositives,
		KeyNegatives:      record.KeyNegatives,
		Summary:           record.Summary,
	}
}
