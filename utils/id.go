package utils

import (
	"github.com/google/uuid"
)

// GenerateID 生成记录主键
func GenerateID() string {
	return uuid.New().String()
}
