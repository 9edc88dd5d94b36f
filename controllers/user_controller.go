package controllers

import (
	"net/http"

	"github.com/jaliliB21/NLP-API-Service/config"
	"github.com/jaliliB21/NLP-API-Service/models"

	"github.com/gin-gonic/gin"
)

type UserController struct{}

// GetQuota 查询剩余免费分析次数
func (uc *UserController) GetQuota(c *gin.Context) {
	uid := c.GetString("uid")

	var user models.User
	if err := config.DB.Where("id = ?", uid).First(&user).Error; err != nil {
		config.Logger.Errorw("获取用户信息失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取用户信息失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"freeAnalysisCount": user.FreeAnalysisCount,
		"isPro":             user.IsPro,
	})
}

// GetUser 获取当前用户信息
func (uc *UserController) GetUser(c *gin.Context) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "用户未认证"})
		return
	}

	var user models.User
	if err := config.DB.Where("id = ?", uid).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "用户未找到"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": models.UserResponse{
			ID:                user.ID,
			Username:          user.Username,
			Email:             user.Email,
			IsPro:             user.IsPro,
			FreeAnalysisCount: user.FreeAnalysisCount,
		},
	})
}
