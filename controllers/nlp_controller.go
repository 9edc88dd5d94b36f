package controllers

import (
	"errors"
	"net/http"

	"github.com/jaliliB21/NLP-API-Service/config"
	"github.com/jaliliB21/NLP-API-Service/models"
	"github.com/jaliliB21/NLP-API-Service/services"

	"github.com/gin-gonic/gin"
)

// NLPController 情感分析与摘要接口
type NLPController struct {
	nlpService *services.NLPService
}

func NewNLPController(nlpService *services.NLPService) *NLPController {
	return &NLPController{nlpService: nlpService}
}

// AnalyzeSentiment 处理批量情感分析请求
func (c *NLPController) AnalyzeSentiment(ctx *gin.Context) {
	uid, ok := c.requireService(ctx)
	if !ok {
		return
	}

	var req models.SentimentAnalysisRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := c.nlpService.AnalyzeTexts(ctx.Request.Context(), uid, req.Texts, req.AnalysisType)
	if err != nil {
		c.writeServiceError(ctx, uid, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"results": results})
}

// Summarize 处理文本摘要请求
func (c *NLPController) Summarize(ctx *gin.Context) {
	uid, ok := c.requireService(ctx)
	if !ok {
		return
	}

	var req models.SummarizeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := c.nlpService.Summarize(ctx.Request.Context(), uid, req.Text, req.MaxWords)
	if err != nil {
		c.writeServiceError(ctx, uid, err)
		return
	}

	ctx.JSON(http.StatusOK, models.SummarizeResponse{
		OriginalText:   req.Text,
		SummarizedText: summary,
	})
}

// AnalyzeAggregate 处理聚合情感分析请求
func (c *NLPController) AnalyzeAggregate(ctx *gin.Context) {
	uid, ok := c.requireService(ctx)
	if !ok {
		return
	}

	var req models.AggregateAnalysisRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, previouslyAnalyzed, err := c.nlpService.AnalyzeAggregate(ctx.Request.Context(), uid, &req)
	if err != nil {
		c.writeServiceError(ctx, uid, err)
		return
	}

	if previouslyAnalyzed {
		ctx.JSON(http.StatusOK, models.PreviouslyAnalyzedResponse{
			Status:         "previously_analyzed",
			Message:        "该URL此前已分析过，如需重新分析请设置 force_reanalyze",
			PreviousResult: *result,
		})
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// requireService 网关未初始化属于部署配置错误，直接返回503
func (c *NLPController) requireService(ctx *gin.Context) (string, bool) {
	uid, exists := ctx.Get("uid")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return "", false
	}
	if c.nlpService == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "分析服务未初始化"})
		return "", false
	}
	return uid.(string), true
}

// writeServiceError 将服务层错误映射为HTTP状态码
func (c *NLPController) writeServiceError(ctx *gin.Context, uid string, err error) {
	switch {
	case errors.Is(err, services.ErrQuotaExceeded):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrTextExtraction):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		config.Logger.Errorw("NLP请求处理失败", "error", err, "uid", uid)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "分析服务调用失败: " + err.Error()})
	}
}
