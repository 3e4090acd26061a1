package search

import "context"

// Topic 取值：决定提供方走新闻类目还是通用网页类目
const (
	TopicGeneral = "general"
	TopicNews    = "news"
)

// Searcher 定义通用的搜索接口
// 聚合层会从多个 goroutine 并发调用，实现必须是并发安全的。
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求
// StartDate/EndDate 是可选的 YYYY-MM-DD 日期，提供方按自身能力
// 尽力收窄时间窗口，无法精确表达时宁可多返回也不丢结果。
type Request struct {
	Query             string
	Topic             string // TopicGeneral 或 TopicNews
	MaxResults        int
	IncludeRawContent bool
	StartDate         string
	EndDate           string
}

// Response 通用搜索响应
type Response struct {
	Results []Result
}

// Result 单条搜索结果
// URL 可能为空：部分提供方会返回没有落地页的聚合条目。
type Result struct {
	Title         string
	URL           string
	Content       string
	RawContent    string
	Score         float64
	PublishedDate string
}
