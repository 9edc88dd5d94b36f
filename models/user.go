package models

import (
	"time"
)

// User 用户模型
type User struct {
	ID                string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	Username          string     `gorm:"type:varchar(100)" json:"username"`
	Email             string     `gorm:"type:varchar(100);uniqueIndex" json:"email"`
	PasswordHash      string     `gorm:"type:varchar(255)" json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
	LastLogin         *time.Time `json:"last_login,omitempty"`
	IsTestUser        bool       `gorm:"default:false" json:"isTestUser"`
	IsPro             bool       `gorm:"default:false" json:"isPro"` // 专业版用户不扣减次数
	// 剩余免费分析次数，创建用户时显式赋值（默认20）
	// 不用 default 标签：gorm 会把显式的0值从INSERT中省略掉
	FreeAnalysisCount int `json:"freeAnalysisCount"`
}

func (u *User) GetDisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
