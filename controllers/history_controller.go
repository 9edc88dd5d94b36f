package controllers

import (
	"net/http"
	"strconv"

	"github.com/jaliliB21/NLP-API-Service/config"
	"github.com/jaliliB21/NLP-API-Service/models"

	"github.com/gin-gonic/gin"
)

const defaultPageSize = 10

// HistoryController 历史记录查询接口
type HistoryController struct{}

// GetAnalysisHistory 获取当前用户的情感分析历史（按时间倒序，分页）
func (hc *HistoryController) GetAnalysisHistory(c *gin.Context) {
	uid := c.GetString("uid")
	page, pageSize := parsePagination(c)

	var records []models.AnalysisHistory
	var total int64
	if err := config.DB.Model(&models.AnalysisHistory{}).Where("user_id = ?", uid).Count(&total).Error; err != nil {
		config.Logger.Errorw("统计分析历史失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取分析历史失败"})
		return
	}
	if err := config.DB.Where("user_id = ?", uid).
		Order("created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&records).Error; err != nil {
		config.Logger.Errorw("获取分析历史失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取分析历史失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"page":    page,
		"results": records,
	})
}

// GetSummarizationHistory 获取当前用户的摘要历史
func (hc *HistoryController) GetSummarizationHistory(c *gin.Context) {
	uid := c.GetString("uid")
	page, pageSize := parsePagination(c)

	var records []models.SummarizationHistory
	var total int64
	if err := config.DB.Model(&models.SummarizationHistory{}).Where("user_id = ?", uid).Count(&total).Error; err != nil {
		config.Logger.Errorw("统计摘要历史失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取摘要历史失败"})
		return
	}
	if err := config.DB.Where("user_id = ?", uid).
		Order("created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&records).Error; err != nil {
		config.Logger.Errorw("获取摘要历史失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取摘要历史失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"page":    page,
		"results": records,
	})
}

// GetAggregateHistory 获取当前用户的聚合分析历史
func (hc *HistoryController) GetAggregateHistory(c *gin.Context) {
	uid := c.GetString("uid")
	page, pageSize := parsePagination(c)

	var records []models.AggregateAnalysisHistory
	var total int64
	if err := config.DB.Model(&models.AggregateAnalysisHistory{}).Where("user_id = ?", uid).Count(&total).Error; err != nil {
		config.Logger.Errorw("统计聚合分析历史失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取聚合分析历史失败"})
		return
	}
	if err := config.DB.Where("user_id = ?", uid).
		Order("created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&records).Error; err != nil {
		config.Logger.Errorw("获取聚合分析历史失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取聚合分析历史失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"page":    page,
		"results": records,
	})
}

func parsePagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultPageSize
	}
	return page, pageSize
}
