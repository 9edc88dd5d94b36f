package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxFetchedTexts  = 200
	minCommentLength = 10 // 过滤导航、按钮等过短的文本节点
)

var fetchClient = &http.Client{Timeout: 20 * time.Second}

// FetchTextsFromURL 抓取页面并抽取其中的评论文本
// 取 p/li/blockquote 节点的文本，过短的丢弃，最多返回200条
func FetchTextsFromURL(ctx context.Context, pageURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("构造页面请求失败: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; nlp-api-service/1.0)")

	resp, err := fetchClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("抓取页面失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("抓取页面失败: 状态码 %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("解析页面失败: %w", err)
	}

	var texts []string
	doc.Find("p, li, blockquote").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if len([]rune(text)) >= minCommentLength {
			texts = append(texts, text)
		}
		return len(texts) < maxFetchedTexts
	})

	if len(texts) == 0 {
		return nil, fmt.Errorf("页面中未找到可分析的文本")
	}
	return texts, nil
}
