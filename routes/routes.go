package routes

import (
	"github.com/jaliliB21/NLP-API-Service/controllers"
	"github.com/jaliliB21/NLP-API-Service/middleware"
	"github.com/jaliliB21/NLP-API-Service/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, nlpService *services.NLPService) {
	authController := controllers.AuthController{}
	userController := controllers.UserController{}
	historyController := controllers.HistoryController{}
	nlpController := controllers.NewNLPController(nlpService)

	// 公开路由（无需认证）
	public := r.Group("/api/v1")
	{
		public.POST("/auth/register", authController.Register)
		public.POST("/auth/login", authController.Login)
		public.POST("/auth/test-user", authController.CreateTestUser)
	}

	// 需要认证的路由
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware()) // 应用认证中间件
	{
		// NLP 相关接口
		private.POST("/sentiment/analyze", nlpController.AnalyzeSentiment)
		private.POST("/summarize", nlpController.Summarize)
		private.POST("/sentiment/aggregate", nlpController.AnalyzeAggregate)

		// 历史记录
		private.GET("/history/analyses", historyController.GetAnalysisHistory)
		private.GET("/history/summaries", historyController.GetSummarizationHistory)
		private.GET("/history/aggregates", historyController.GetAggregateHistory)

		// 用户信息
		private.GET("/user", userController.GetUser)
		private.GET("/user/quota", userController.GetQuota)
	}

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
