package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arjunkrish/rival_radar/internal/search"
)

// Client 自托管 SearXNG 实例的客户端
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 SearXNG 客户端
func NewClient(baseURL string, timeout int) *Client {
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: t},
	}
}

var _ search.Searcher = (*Client)(nil)

// response SearXNG /search?format=json 的响应体
type response struct {
	Query   string   `json:"query"`
	Results []result `json:"results"`
}

type result struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	PublishedDate string  `json:"publishedDate"`
	Score         float64 `json:"score"`
}

// Search 执行搜索
// SearXNG 没有逐条数量上限参数，结果在客户端截断到 MaxResults。
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/search"

	q := u.Query()
	q.Set("q", req.Query)
	q.Set("format", "json")
	if req.Topic == search.TopicNews {
		q.Set("categories", "news")
	} else {
		q.Set("categories", "general")
	}
	if tr := timeRange(req.StartDate, time.Now()); tr != "" {
		q.Set("time_range", tr)
	}
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	// 裸 Go UA 会被部分实例的 bot 过滤规则拦截
	httpReq.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("searxng api error (status %d): %s", res.StatusCode, string(body))
	}

	var decoded response
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	var results []search.Result
	for _, r := range decoded.Results {
		if !withinEnd(r.PublishedDate, req.EndDate) {
			continue
		}
		results = append(results, search.Result{
			Title:         r.Title,
			URL:           r.URL,
			Content:       r.Content,
			Score:         r.Score,
			PublishedDate: r.PublishedDate,
		})
		if req.MaxResults > 0 && len(results) >= req.MaxResults {
			break
		}
	}

	return &search.Response{Results: results}, nil
}

// timeRange 把绝对起始日期映射到 SearXNG 的相对时间窗口
// SearXNG 只接受 day/week/month/year，没有自定义日期区间参数，
// 窗口向上取整到能覆盖 start 的最小档位。
func timeRange(start string, now time.Time) string {
	if start == "" {
		return ""
	}
	t, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return ""
	}
	age := now.Sub(t)
	switch {
	case age <= 24*time.Hour:
		return "day"
	case age <= 7*24*time.Hour:
		return "week"
	case age <= 31*24*time.Hour:
		return "month"
	case age <= 366*24*time.Hour:
		return "year"
	default:
		return ""
	}
}

// withinEnd 按发布时间过滤晚于 end 的结果（尽力而为）
// 发布时间缺失或格式无法解析时保留结果。
func withinEnd(published, end string) bool {
	if end == "" || published == "" || len(published) < len(time.DateOnly) {
		return true
	}
	p, err := time.Parse(time.DateOnly, published[:len(time.DateOnly)])
	if err != nil {
		return true
	}
	e, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return true
	}
	return !p.After(e)
}
