package aggregate

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"

	"github.com/arjunkrish/rival_radar/internal/logger"
	"github.com/arjunkrish/rival_radar/internal/search"
)

// recordSeparator 拼接搜索结果时的分隔符
const recordSeparator = "\n---\n"

// Seen 一次运行范围内已经出现过的 URL 集合
type Seen map[string]struct{}

// NewSeen 创建空的 URL 集合
func NewSeen() Seen {
	return make(Seen)
}

// Options 聚合器参数
type Options struct {
	MaxResults       int           // 每条查询要求的结果数
	QueryTimeout     time.Duration // 单条查询超时
	MaxCombinedChars int           // Truncate 的字符上限
	EnrichContent    bool          // 摘要太短时是否抓取正文
	NewsWorkers      int           // 竞品新闻搜索的并发上限
}

func (o *Options) applyDefaults() {
	if o.MaxResults == 0 {
		o.MaxResults = 5
	}
	if o.QueryTimeout == 0 {
		o.QueryTimeout = 30 * time.Second
	}
	if o.MaxCombinedChars == 0 {
		o.MaxCombinedChars = 60000
	}
	if o.NewsWorkers == 0 {
		o.NewsWorkers = 3
	}
}

// Aggregator 多查询搜索聚合器
// 负责并发发起模板化查询、按 URL 去重并拼接文本。
type Aggregator struct {
	searcher search.Searcher
	opts     Options
}

// New 创建聚合器
func New(searcher search.Searcher, opts Options) *Aggregator {
	opts.applyDefaults()
	return &Aggregator{searcher: searcher, opts: opts}
}

// RunPhase 执行一批查询并聚合结果
// seen 为 nil 时从空集合开始；返回扩充后的集合供下一阶段继续去重。
// 单条查询失败只影响该条查询，绝不中断整个阶段。
func (a *Aggregator) RunPhase(ctx context.Context, name string, templates []string, topic string, seen Seen) (string, Seen) {
	if seen == nil {
		seen = NewSeen()
	}

	// 固定大小的结果槽，按模板序号写入，避免并发写共享集合
	slots := make([][]search.Result, len(templates))
	var wg sync.WaitGroup

	for i, tmpl := range templates {
		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()

			qctx, cancel := context.WithTimeout(ctx, a.opts.QueryTimeout)
			defer cancel()

			resp, err := a.searcher.Search(qctx, &search.Request{
				Query:      query,
				Topic:      topic,
				MaxResults: a.opts.MaxResults,
			})
			if err != nil {
				logger.Log.Warnf("查询失败，跳过 [%s]: %v", query, err)
				return
			}
			slots[i] = resp.Results
		}(i, interpolate(tmpl, name))
	}

	wg.Wait()

	// 汇合后统一去重：模板顺序优先，同模板内保持返回顺序，先见者保留
	var kept []search.Result
	for _, results := range slots {
		for _, item := range results {
			if item.URL == "" {
				// 空 URL 无法作为身份键，始终保留，互相之间不去重
				kept = append(kept, item)
				continue
			}
			if _, ok := seen[item.URL]; ok {
				continue
			}
			seen[item.URL] = struct{}{}
			kept = append(kept, item)
		}
	}

	if a.opts.EnrichContent {
		a.enrich(kept)
	}

	return formatResults(kept), seen
}

// SearchProductInitial 产品级第一轮搜索，从空集合开始去重
func (a *Aggregator) SearchProductInitial(ctx context.Context, product string) (string, Seen) {
	return a.RunPhase(ctx, product, initialQueries, search.TopicGeneral, nil)
}

// SearchProductDeep 产品级第二轮搜索，在第一轮的集合上继续去重
func (a *Aggregator) SearchProductDeep(ctx context.Context, product string, seen Seen) string {
	text, _ := a.RunPhase(ctx, product, deepQueries(time.Now()), search.TopicGeneral, seen)
	return text
}

// SearchCompetitorNews 为每个竞品执行新闻查询
// 每个竞品使用独立的去重集合；没有产出文本的竞品不出现在结果里。
// 并发受 NewsWorkers 限制，结果按输入顺序合并保证可复现。
func (a *Aggregator) SearchCompetitorNews(ctx context.Context, names []string) map[string]string {
	templates := newsQueries(time.Now())

	texts := make([]string, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.NewsWorkers)

	for i, name := range names {
		g.Go(func() error {
			text, _ := a.RunPhase(gctx, name, templates, search.TopicNews, nil)
			texts[i] = text
			return nil
		})
	}
	// worker 从不返回错误，失败已在 RunPhase 内部降级
	_ = g.Wait()

	byName := make(map[string]string, len(names))
	for i, name := range names {
		if texts[i] != "" {
			byName[name] = texts[i]
		}
	}
	return byName
}

// Truncate 把文本截断到配置的字符上限
// 超长只是降级而不是错误，直接前缀截断。
func (a *Aggregator) Truncate(text string) string {
	if len(text) > a.opts.MaxCombinedChars {
		return text[:a.opts.MaxCombinedChars]
	}
	return text
}

// enrich 对摘要过短的结果尝试抓取正文（尽力而为）
func (a *Aggregator) enrich(results []search.Result) {
	for i := range results {
		if len(results[i].Content) >= 500 || results[i].URL == "" {
			continue
		}
		article, err := readability.FromURL(results[i].URL, a.opts.QueryTimeout)
		if err != nil {
			continue
		}
		content := article.TextContent
		if len(content) > 5000 {
			content = content[:5000]
		}
		if len(content) > len(results[i].Content) {
			results[i].Content = content
		}
	}
}

// formatResults 把保留的结果拼接成单个文本块
func formatResults(results []search.Result) string {
	if len(results) == 0 {
		return ""
	}

	parts := make([]string, 0, len(results))
	for _, item := range results {
		var sb strings.Builder
		sb.WriteString("Title: " + item.Title + "\n")
		sb.WriteString("URL: " + item.URL + "\n")
		sb.WriteString("Snippet: " + item.Content + "\n")
		if item.PublishedDate != "" {
			sb.WriteString("Published: " + item.PublishedDate + "\n")
		}
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, recordSeparator)
}
