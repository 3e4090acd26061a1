package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	dm "github.com/arjunkrish/rival_radar/internal/model"
)

// ErrMalformedResponse 表示模型返回了无法解析或缺少必填字段的载荷
// 与传输层错误区分开：空的竞品列表是合法结果，坏的 JSON 不是。
var ErrMalformedResponse = errors.New("malformed model response")

// Client 封装结构化分析与新闻提取两类模型调用
type Client struct {
	chatModel model.ChatModel
	limiter   *rate.Limiter
}

// NewClient 创建分析客户端
func NewClient(chatModel model.ChatModel, limiter *rate.Limiter) *Client {
	return &Client{chatModel: chatModel, limiter: limiter}
}

// AnalyzeProduct 把聚合后的搜索文本交给模型生成结构化竞争分析
func (c *Client) AnalyzeProduct(ctx context.Context, productName, searchData string) (*dm.CompetitiveAnalysis, error) {
	userPrompt := fmt.Sprintf(userPromptTemplate, productName, searchData)

	raw, err := c.generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var analysis dm.CompetitiveAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if analysis.ProductName == "" {
		analysis.ProductName = productName
	}
	if analysis.MarketOverview == "" && len(analysis.Competitors) == 0 {
		return nil, fmt.Errorf("%w: empty analysis payload", ErrMalformedResponse)
	}
	return &analysis, nil
}

// ExtractNews 从竞品新闻搜索文本中提取结构化新闻条目
func (c *Client) ExtractNews(ctx context.Context, competitorName, searchData string) ([]dm.NewsItem, error) {
	userPrompt := fmt.Sprintf(newsUserPromptTemplate, competitorName, searchData)

	raw, err := c.generate(ctx, newsSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var extraction dm.NewsExtraction
	if err := json.Unmarshal([]byte(raw), &extraction); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return extraction.Items, nil
}

// generate 调用 LLM 并返回清理后的 JSON 字符串（带限流与 429 重试）
func (c *Client) generate(ctx context.Context, system, user string) (string, error) {
	maxRetries := 3
	baseDelay := 2 * time.Second
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		messages := []*schema.Message{
			{Role: schema.System, Content: system},
			{Role: schema.User, Content: user},
		}

		resp, err := c.chatModel.Generate(ctx, messages)
		if err != nil {
			if strings.Contains(err.Error(), "429") || strings.Contains(strings.ToLower(err.Error()), "too many requests") {
				lastErr = err
				if i < maxRetries {
					time.Sleep(baseDelay * time.Duration(1<<i))
					continue
				}
			}
			return "", err
		}

		return cleanJSON(resp.Content), nil
	}
	return "", lastErr
}

// cleanJSON 去掉模型偶尔附带的 markdown 代码块标记
func cleanJSON(content string) string {
	clean := strings.TrimSpace(content)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
