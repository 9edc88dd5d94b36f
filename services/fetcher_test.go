package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchTextsFromURL(t *testing.T) {
	page := `<html><body>
		<nav><li>خانه</li></nav>
		<p>این یک نظر کاربر درباره محصول است</p>
		<blockquote>کیفیت ساخت بسیار عالی بود و راضی هستم</blockquote>
		<p>کوتاه</p>
		<button>خرید</button>
	</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	texts, err := FetchTextsFromURL(context.Background(), server.URL)
	require.NoError(t, err)

	// 过短的文本节点（导航、按钮等）被过滤
	assert.Contains(t, texts, "این یک نظر کاربر درباره محصول است")
	assert.Contains(t, texts, "کیفیت ساخت بسیار عالی بود و راضی هستم")
	for _, text := range texts {
		assert.GreaterOrEqual(t, len([]rune(text)), minCommentLength)
	}
}

func TestFetchTextsFromURL_CapsAtLimit(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < maxFetchedTexts+50; i++ {
		fmt.Fprintf(&sb, "<p>نظر شماره %d درباره این محصول</p>", i)
	}
	sb.WriteString("</body></html>")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sb.String())
	}))
	defer server.Close()

	texts, err := FetchTextsFromURL(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Len(t, texts, maxFetchedTexts)
}

func TestFetchTextsFromURL_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := FetchTextsFromURL(context.Background(), server.URL)
	assert.Error(t, err)

	// 页面无可用文本
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><div>x</div></body></html>")
	}))
	defer empty.Close()

	_, err = FetchTextsFromURL(context.Background(), empty.URL)
	assert.Error(t, err)
}
