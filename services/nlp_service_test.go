package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jaliliB21/NLP-API-Service/config"
	"github.com/jaliliB21/NLP-API-Service/models"
	"github.com/jaliliB21/NLP-API-Service/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// countingProcessor 统计网关调用次数的测试处理器
type countingProcessor struct {
	MockProcessor
	sentimentCalls int64
	summarizeCalls int64
	aggregateCalls int64
	failOn         string // 该文本的情感分析调用固定失败
}

func (p *countingProcessor) AnalyzeSentiment(ctx context.Context, text string, analysisType string) (*SentimentResult, error) {
	atomic.AddInt64(&p.sentimentCalls, 1)
	if p.failOn != "" && text == p.failOn {
		return nil, fmt.Errorf("模拟网关失败")
	}
	return p.MockProcessor.AnalyzeSentiment(ctx, text, analysisType)
}

func (p *countingProcessor) SummarizeText(ctx context.Context, text string, maxWords int) (string, error) {
	atomic.AddInt64(&p.summarizeCalls, 1)
	return p.MockProcessor.SummarizeText(ctx, text, maxWords)
}

func (p *countingProcessor) AnalyzeAggregateSentiment(ctx context.Context, texts []string, analysisType string) (*AggregateResult, error) {
	atomic.AddInt64(&p.aggregateCalls, 1)
	return p.MockProcessor.AnalyzeAggregateSentiment(ctx, texts, analysisType)
}

// setupService 用内存数据库和miniredis装配一套完整的缓存管道
func setupService(t *testing.T) (*miniredis.Miniredis, *countingProcessor, *NLPService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AnalysisHistory{},
		&models.SummarizationHistory{},
		&models.AggregateAnalysisHistory{},
	))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	config.DB = db
	config.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	config.Logger = zap.NewNop().Sugar()

	processor := &countingProcessor{}
	return mr, processor, NewNLPService(processor)
}

func historyCount(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, config.DB.Model(model).Count(&n).Error)
	return n
}

func TestAnalyzeTexts_ColdPathThenCacheHit(t *testing.T) {
	_, processor, svc := setupService(t)
	seedUser(t, config.DB, "u1", 5, false)
	ctx := context.Background()

	// 首次请求走冷路径：1次网关调用、1条历史、扣1次额度
	results, err := svc.AnalyzeTexts(ctx, "u1", []string{"غذا عالی بود."}, "general_sentiment")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, SentimentPositive, results[0].SentimentType)
	assert.Equal(t, "غذا عالی بود.", results[0].TextInput)
	assert.EqualValues(t, 1, processor.sentimentCalls)
	assert.EqualValues(t, 1, historyCount(t, &models.AnalysisHistory{}))
	assert.Equal(t, 4, remaining(t, config.DB, "u1"))

	// 相同文本的空白变体：L1命中，不计费、不写历史、不调网关
	results, err = svc.AnalyzeTexts(ctx, "u1", []string{"  غذا   عالی بود "}, "general_sentiment")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, SentimentPositive, results[0].SentimentType)
	assert.EqualValues(t, 1, processor.sentimentCalls)
	assert.EqualValues(t, 1, historyCount(t, &models.AnalysisHistory{}))
	assert.Equal(t, 4, remaining(t, config.DB, "u1"))
}

func TestAnalyzeTexts_L2RepopulatesL1(t *testing.T) {
	mr, processor, svc := setupService(t)
	seedUser(t, config.DB, "u1", 5, false)
	ctx := context.Background()

	_, err := svc.AnalyzeTexts(ctx, "u1", []string{"سرویس خوب بود"}, "general_sentiment")
	require.NoError(t, err)
	require.EqualValues(t, 1, processor.sentimentCalls)

	// 清空L1，第二次请求应从历史表命中并回填L1
	mr.FlushAll()
	results, err := svc.AnalyzeTexts(ctx, "u1", []string{"سرویس خوب بود"}, "general_sentiment")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.EqualValues(t, 1, processor.sentimentCalls)
	assert.Equal(t, 5-1, remaining(t, config.DB, "u1"))

	key := fmt.Sprintf("sentiment:general_sentiment:%s", utils.TextHash("سرویس خوب بود"))
	assert.True(t, mr.Exists(key))
}

func TestAnalyzeTexts_KeyNamespacedByAnalysisType(t *testing.T) {
	_, processor, svc := setupService(t)
	seedUser(t, config.DB, "u1", 5, false)
	ctx := context.Background()

	_, err := svc.AnalyzeTexts(ctx, "u1", []string{"متن يکسان"}, "general_sentiment")
	require.NoError(t, err)
	// 相同文本、不同分析类型不共享缓存
	_, err = svc.AnalyzeTexts(ctx, "u1", []string{"متن يکسان"}, "business_intent")
	require.NoError(t, err)
	assert.EqualValues(t, 2, processor.sentimentCalls)
	assert.EqualValues(t, 2, historyCount(t, &models.AnalysisHistory{}))
}

func TestAnalyzeTexts_BatchPartialFailure(t *testing.T) {
	_, processor, svc := setupService(t)
	processor.failOn = "bad"
	seedUser(t, config.DB, "u1", 10, false)
	ctx := context.Background()

	results, err := svc.AnalyzeTexts(ctx, "u1", []string{"one text here", "bad", "three text here"}, "general_sentiment")
	require.NoError(t, err)
	require.Len(t, results, 3)

	// 结果顺序与输入一致，失败条目标记为ERROR
	assert.Equal(t, "one text here", results[0].TextInput)
	assert.Equal(t, SentimentPositive, results[0].SentimentType)
	assert.Equal(t, "bad", results[1].TextInput)
	assert.Equal(t, SentimentError, results[1].SentimentType)
	assert.Equal(t, "three text here", results[2].TextInput)
	assert.Equal(t, SentimentPositive, results[2].SentimentType)

	// 历史只记录成功的两条；整批计费一次（3条）
	assert.EqualValues(t, 2, historyCount(t, &models.AnalysisHistory{}))
	assert.Equal(t, 7, remaining(t, config.DB, "u1"))
}

func TestAnalyzeTexts_QuotaExceededBeforeGateway(t *testing.T) {
	_, processor, svc := setupService(t)
	seedUser(t, config.DB, "u1", 0, false)

	_, err := svc.AnalyzeTexts(context.Background(), "u1", []string{"متن"}, "general_sentiment")
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	// 额度不足时不调用网关、不写历史
	assert.EqualValues(t, 0, processor.sentimentCalls)
	assert.EqualValues(t, 0, historyCount(t, &models.AnalysisHistory{}))
}

func TestAnalyzeTexts_AllHitsNoCharge(t *testing.T) {
	_, processor, svc := setupService(t)
	seedUser(t, config.DB, "u1", 5, false)
	ctx := context.Background()

	_, err := svc.AnalyzeTexts(ctx, "u1", []string{"aaa aaa aaa", "bbb bbb bbb"}, "general_sentiment")
	require.NoError(t, err)
	require.Equal(t, 3, remaining(t, config.DB, "u1"))

	// 全部命中缓存的批次完全不扣额度
	_, err = svc.AnalyzeTexts(ctx, "u1", []string{"bbb bbb bbb", "aaa aaa aaa"}, "general_sentiment")
	require.NoError(t, err)
	assert.Equal(t, 3, remaining(t, config.DB, "u1"))
	assert.EqualValues(t, 2, processor.sentimentCalls)
}

func TestSummarize_ColdPathThenCacheHit(t *testing.T) {
	_, processor, svc := setupService(t)
	seedUser(t, config.DB, "u1", 5, false)
	ctx := context.Background()

	summary, err := svc.Summarize(ctx, "u1", "متن بلند برای خلاصه سازی.", 50)
	require.NoError(t, err)
	require.NotEmpty(t, summary)
	assert.EqualValues(t, 1, processor.summarizeCalls)
	assert.Equal(t, 4, remaining(t, config.DB, "u1"))

	var record models.SummarizationHistory
	require.NoError(t, config.DB.First(&record).Error)
	assert.Equal(t, "متن بلند برای خلاصه سازی", record.TextInput) // 存规范化文本
	assert.Equal(t, 50, record.MaxWords)
	assert.Equal(t, "mock", record.SummarizationSource)

	again, err := svc.Summarize(ctx, "u1", "  متن بلند برای خلاصه سازی ", 50)
	require.NoError(t, err)
	assert.Equal(t, summary, again)
	assert.EqualValues(t, 1, processor.summarizeCalls)
	assert.Equal(t, 4, remaining(t, config.DB, "u1"))
}

func TestSummarize_MaxWordsSeparatesCache(t *testing.T) {
	_, processor, svc := setupService(t)
	seedUser(t, config.DB, "u1", 5, false)
	ctx := context.Background()

	_, err := svc.Summarize(ctx, "u1", "یک متن", 50)
	require.NoError(t, err)
	_, err = svc.Summarize(ctx, "u1", "یک متن", 100)
	require.NoError(t, err)
	assert.EqualValues(t, 2, processor.summarizeCalls)
	assert.EqualValues(t, 2, historyCount(t, &models.SummarizationHistory{}))
}

func TestAnalyzeAggregate_FingerprintOrderIndependent(t *testing.T) {
	_, processor, svc := setupService(t)
	seedUser(t, config.DB, "u1", 5, false)
	seedUser(t, config.DB, "u2", 5, false)
	ctx := context.Background()

	req1 := &models.AggregateAnalysisRequest{Texts: []string{"a.", "b"}, AnalysisType: "business_intent"}
	resp1, previously, err := svc.AnalyzeAggregate(ctx, "u1", req1)
	require.NoError(t, err)
	assert.False(t, previously)
	assert.EqualValues(t, 1, processor.aggregateCalls)
	assert.Equal(t, 4, remaining(t, config.DB, "u1"))

	// 同一组文本换序、换用户：指纹相同，聚合结果跨用户共享，不再调网关
	req2 := &models.AggregateAnalysisRequest{Texts: []string{"b", "a"}, AnalysisType: "business_intent"}
	resp2, previously, err := svc.AnalyzeAggregate(ctx, "u2", req2)
	require.NoError(t, err)
	assert.False(t, previously)
	assert.Equal(t, resp1.OverallSentiment, resp2.OverallSentiment)
	assert.Equal(t, resp1.SatisfactionScore, resp2.SatisfactionScore)
	assert.EqualValues(t, 1, processor.aggregateCalls)
	assert.Equal(t, 5, remaining(t, config.DB, "u2"))
	assert.EqualValues(t, 1, historyCount(t, &models.AggregateAnalysisHistory{}))
}

func TestAnalyzeAggregate_StoresOriginalOrder(t *testing.T) {
	_, _, svc := setupService(t)
	seedUser(t, config.DB, "u1", 5, false)

	req := &models.AggregateAnalysisRequest{Texts: []string{"zzz", "aaa"}, AnalysisType: "business_intent"}
	_, _, err := svc.AnalyzeAggregate(context.Background(), "u1", req)
	require.NoError(t, err)

	var record models.AggregateAnalysisHistory
	require.NoError(t, config.DB.First(&record).Error)
	// 指纹与顺序无关，但存储的输入保留提交顺序
	assert.Equal(t, models.StringList{"zzz", "aaa"}, record.InputTexts)
	assert.Equal(t, utils.GenerateFingerprint([]string{"aaa", "zzz"}), record.InputFingerprint)
	assert.Nil(t, record.URL)
}

func TestAnalyzeAggregate_URLPreviouslyAnalyzed(t *testing.T) {
	_, processor, svc := setupService(t)
	seedUser(t, config.DB, "u1", 5, false)

	url := "https://example.com/product/1"
	require.NoError(t, config.DB.Create(&models.AggregateAnalysisHistory{
		ID:                utils.GenerateID(),
		UserID:            "u1",
		URL:               &url,
		InputFingerprint:  "prior-fp",
		InputTexts:        models.StringList{"قبلی"},
		OverallSentiment:  SentimentSatisfied,
		SatisfactionScore: 70,
		Summary:           "prior summary",
		AnalysisSource:    "mock",
		AnalysisType:      "business_intent",
	}).Error)

	req := &models.AggregateAnalysisRequest{URL: url, AnalysisType: "business_intent"}
	resp, previously, err := svc.AnalyzeAggregate(context.Background(), "u1", req)
	require.NoError(t, err)
	// 命中URL预检：直接短路，不抓取、不调网关、不扣额度
	assert.True(t, previously)
	assert.Equal(t, "prior summary", resp.Summary)
	assert.EqualValues(t, 0, processor.aggregateCalls)
	assert.Equal(t, 5, remaining(t, config.DB, "u1"))
}

func TestAnalyzeAggregate_ForceReanalyzeBypassesShortcut(t *testing.T) {
	_, processor, svc := setupService(t)
	seedUser(t, config.DB, "u1", 5, false)

	page := `<html><body>
		<p>محصول بسیار خوبی بود و کیفیت عالی داشت</p>
		<p>ارسال کمی دیر انجام شد ولی بسته بندی مناسب بود</p>
	</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	extracted := []string{
		"محصول بسیار خوبی بود و کیفیت عالی داشت",
		"ارسال کمی دیر انجام شد ولی بسته بندی مناسب بود",
	}

	// 该URL已有历史记录，且其指纹与页面内容一致
	require.NoError(t, config.DB.Create(&models.AggregateAnalysisHistory{
		ID:                utils.GenerateID(),
		UserID:            "u1",
		URL:               &server.URL,
		InputFingerprint:  utils.GenerateFingerprint(extracted),
		InputTexts:        models.StringList(extracted),
		OverallSentiment:  SentimentSatisfied,
		SatisfactionScore: 85,
		Summary:           "stored summary",
		AnalysisSource:    "mock",
		AnalysisType:      "business_intent",
	}).Error)

	// force_reanalyze 跳过URL预检，但指纹管道仍会在L2命中同样的内容
	req := &models.AggregateAnalysisRequest{URL: server.URL, AnalysisType: "business_intent", ForceReanalyze: true}
	resp, previously, err := svc.AnalyzeAggregate(context.Background(), "u1", req)
	require.NoError(t, err)
	assert.False(t, previously)
	assert.Equal(t, "stored summary", resp.Summary)
	assert.EqualValues(t, 0, processor.aggregateCalls)
	assert.Equal(t, 5, remaining(t, config.DB, "u1"))
}

func TestAnalyzeAggregate_URLFetchFailure(t *testing.T) {
	_, processor, svc := setupService(t)
	seedUser(t, config.DB, "u1", 5, false)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	req := &models.AggregateAnalysisRequest{URL: server.URL, AnalysisType: "business_intent"}
	_, _, err := svc.AnalyzeAggregate(context.Background(), "u1", req)
	assert.ErrorIs(t, err, ErrTextExtraction)
	assert.EqualValues(t, 0, processor.aggregateCalls)
	assert.Equal(t, 5, remaining(t, config.DB, "u1"))
}

func TestAnalyzeAggregate_QuotaExceeded(t *testing.T) {
	_, processor, svc := setupService(t)
	seedUser(t, config.DB, "u1", 0, false)

	req := &models.AggregateAnalysisRequest{Texts: []string{"یک", "دو"}, AnalysisType: "business_intent"}
	_, _, err := svc.AnalyzeAggregate(context.Background(), "u1", req)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.EqualValues(t, 0, processor.aggregateCalls)
}
