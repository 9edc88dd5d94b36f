package services

import (
	"fmt"

	"github.com/jaliliB21/NLP-API-Service/models"
	"gorm.io/gorm"
)

// CheckAndDeductUsage 原子地检查并扣减用户的免费分析次数
// 专业版用户直接通过且不扣减；次数不足时返回 ErrQuotaExceeded 且不做任何扣减
// 条件UPDATE自身持有行锁，同一用户的并发请求不会把次数扣成负数
func CheckAndDeductUsage(db *gorm.DB, userID string, count int) error {
	if count <= 0 {
		return fmt.Errorf("无效的扣减数量: %d", count)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id", "is_pro").Where("id = ?", userID).First(&user).Error; err != nil {
			return fmt.Errorf("获取用户信息失败: %w", err)
		}

		if user.IsPro {
			return nil
		}

		result := tx.Model(&models.User{}).
			Where("id = ? AND free_analysis_count >= ?", userID, count).
			Update("free_analysis_count", gorm.Expr("free_analysis_count - ?", count))
		if result.Error != nil {
			return fmt.Errorf("扣减免费次数失败: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrQuotaExceeded
		}
		return nil
	})
}
