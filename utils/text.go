package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeText 将任意输入文本转换为规范形式
// 依次执行：去首尾空白、压缩连续空白为单个空格、去掉结尾的句点
// 缓存、历史查询和指纹计算对"同一段文本"的判定都以此为准
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	text = whitespaceRe.ReplaceAllString(text, " ")
	// 结尾的句点和空格可能交错出现（如 "Hello world ."），一并去掉
	text = strings.TrimRight(text, " .")
	return text
}

// TextHash 返回规范化文本的SHA-256十六进制摘要，用作缓存键的一部分
// 必须使用加密哈希以保证键在进程和实例之间稳定
func TextHash(text string) string {
	sum := sha256.Sum256([]byte(NormalizeText(text)))
	return hex.EncodeToString(sum[:])
}

// GenerateFingerprint 计算一组文本的顺序无关指纹
// 每条文本独立规范化后按字典序排序再拼接取SHA-256，
// 因此同一组文本以不同顺序提交会得到相同指纹
// 空列表会得到空串的哈希，调用方需要在上游拒绝空列表
func GenerateFingerprint(texts []string) string {
	normalized := make([]string, len(texts))
	for i, t := range texts {
		normalized[i] = NormalizeText(t)
	}
	sort.Strings(normalized)

	sum := sha256.Sum256([]byte(strings.Join(normalized, "")))
	return hex.EncodeToString(sum[:])
}
