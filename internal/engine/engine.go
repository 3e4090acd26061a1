package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/arjunkrish/rival_radar/internal/aggregate"
	"github.com/arjunkrish/rival_radar/internal/analyzer"
	"github.com/arjunkrish/rival_radar/internal/config"
	"github.com/arjunkrish/rival_radar/internal/logger"
	dm "github.com/arjunkrish/rival_radar/internal/model"
	"github.com/arjunkrish/rival_radar/internal/report"
	"github.com/arjunkrish/rival_radar/internal/search/factory"
	"github.com/arjunkrish/rival_radar/internal/slack"
	"github.com/arjunkrish/rival_radar/internal/storage"
	"github.com/arjunkrish/rival_radar/internal/tracker"
)

// Analyzer 结构化分析与新闻提取的模型接口
type Analyzer interface {
	AnalyzeProduct(ctx context.Context, productName, searchData string) (*dm.CompetitiveAnalysis, error)
	ExtractNews(ctx context.Context, competitorName, searchData string) ([]dm.NewsItem, error)
}

// RunStore 运行历史的持久化接口
type RunStore interface {
	AppendRun(ctx context.Context, run *dm.AnalysisRun) (int, error)
	BackfillReport(ctx context.Context, runDate, productName, html string) error
}

// Notifier 报告投递接口
type Notifier interface {
	Send(ctx context.Context, payloads []slack.Payload) error
}

// Engine 核心流水线引擎
// 各协作方显式注入，生命周期由引擎的构造方持有，不使用包级单例。
type Engine struct {
	cfg        *config.Config
	aggregator *aggregate.Aggregator
	analyzer   Analyzer
	tracker    *tracker.Tracker
	runs       RunStore
	notifier   Notifier
	now        func() time.Time
}

// NewEngine 创建引擎实例
// 搜索/模型客户端在这里构造：凭证缺失属于启动期致命错误。
func NewEngine(cfg *config.Config, store *storage.Storage) (*Engine, error) {
	ctx := context.Background()

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	limiter := rate.NewLimiter(limit, cfg.Concurrency.QPS)

	searcher, err := factory.NewSearcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}

	agg := aggregate.New(searcher, aggregate.Options{
		MaxResults:       cfg.Limits.MaxResults,
		QueryTimeout:     time.Duration(cfg.Limits.QueryTimeout) * time.Second,
		MaxCombinedChars: cfg.Limits.MaxCombinedChars,
		EnrichContent:    cfg.Limits.EnrichContent,
		NewsWorkers:      cfg.Concurrency.NewsWorkers,
	})

	return &Engine{
		cfg:        cfg,
		aggregator: agg,
		analyzer:   analyzer.NewClient(chatModel, limiter),
		tracker:    tracker.NewTracker(store),
		runs:       store,
		notifier:   slack.NewNotifier(cfg.Slack),
		now:        time.Now,
	}, nil
}

// Run 执行一次完整的竞争情报流水线
// 阶段严格顺序执行；分析与持久化失败是致命的，
// 渲染/投递失败只记 warning，不丢弃已算出的分析结果。
func (e *Engine) Run(ctx context.Context) error {
	product := e.cfg.ProductName
	now := e.now()
	today := now.Format(time.DateOnly)

	logger.Log.Infof("=== 竞争情报运行: %s ===", product)

	// 首跑判定必须发生在本次运行的任何写入之前
	firstRun, err := e.tracker.IsFirstRun(ctx)
	if err != nil {
		return fmt.Errorf("init stage: %w", err)
	}
	if firstRun {
		logger.Log.Info("检测到首跑，所有竞品都会标记为新")
	}

	// 阶段 1/2: 两轮产品级搜索，共享去重集合
	logger.Log.Info("阶段 1: 初始搜索...")
	initialText, seen := e.aggregator.SearchProductInitial(ctx, product)
	logger.Log.Infof("  初始搜索返回 %d 字符", len(initialText))

	logger.Log.Info("阶段 2: 深度搜索...")
	deepText := e.aggregator.SearchProductDeep(ctx, product, seen)
	logger.Log.Infof("  深度搜索返回 %d 字符", len(deepText))

	searchData := joinNonEmpty(initialText, deepText)

	// 阶段 3: 结构化分析（失败即终止，不产出部分报告）
	logger.Log.Info("阶段 3: AI 分析...")
	analysis, err := e.analyzer.AnalyzeProduct(ctx, product, e.aggregator.Truncate(searchData))
	if err != nil {
		return fmt.Errorf("structure stage: %w", err)
	}
	logger.Log.Infof("  识别出 %d 个竞品", len(analysis.Competitors))

	// 阶段 4: 按竞品搜索新闻并提取
	names := analysis.CompetitorNames()
	logger.Log.Infof("阶段 4: 为 %d 个竞品搜索新闻...", len(names))
	newsData := e.aggregator.SearchCompetitorNews(ctx, names)

	allNews, err := e.extractAllNews(ctx, names, newsData)
	if err != nil {
		return fmt.Errorf("news extract stage: %w", err)
	}
	analysis.NewsDigest = allNews
	logger.Log.Infof("  共 %d 条带链接的新闻", len(allNews))

	// 阶段 5: 竞品身份追踪
	logger.Log.Info("阶段 5: 竞品追踪...")
	newNames, returningNames, err := e.tracker.ClassifyAndRecord(ctx, names, now)
	if err != nil {
		return fmt.Errorf("identity track stage: %w", err)
	}
	logger.Log.Infof("  新竞品: %v", newNames)
	logger.Log.Infof("  回归竞品: %v", returningNames)
	if known, err := e.tracker.Known(ctx); err != nil {
		logger.Log.Warnf("无法读取竞品登记表: %v", err)
	} else {
		logger.Log.Infof("  登记表共 %d 个已知竞品", len(known))
	}

	// 持久化运行记录（系统记录，写失败是致命的）
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("persist stage: %w", err)
	}
	runID, err := e.runs.AppendRun(ctx, &dm.AnalysisRun{
		RunDate:         today,
		ProductName:     product,
		AnalysisJSON:    string(analysisJSON),
		CompetitorNames: names,
		NewCompetitors:  newNames,
	})
	if err != nil {
		return fmt.Errorf("persist stage: %w", err)
	}
	logger.Log.Infof("  运行记录已保存 (id=%d)", runID)

	// 阶段 6: 渲染 HTML 报告（此后全部是尽力而为）
	logger.Log.Info("阶段 6: 生成 HTML 报告...")
	html, err := report.Render(analysis, newNames, firstRun, now)
	if err != nil {
		logger.Log.Errorf("渲染报告失败: %v", err)
	} else {
		e.saveReport(ctx, today, html)
	}

	// 阶段 7: Slack 投递
	logger.Log.Info("阶段 7: 发送 Slack 摘要...")
	var reportURL string
	if e.cfg.Report.BaseURL != "" {
		reportURL = strings.TrimRight(e.cfg.Report.BaseURL, "/") + "/report/" + today
	}
	payloads := slack.FormatMessages(analysis, newNames, returningNames, firstRun, reportURL, now)
	if err := e.notifier.Send(ctx, payloads); err != nil {
		logger.Log.Warnf("Slack 投递失败: %v", err)
	}

	logger.Log.Info("=== 运行完成 ===")
	return nil
}

// extractAllNews 并发提取各竞品新闻，按输入顺序合并
// 丢弃没有 URL 的条目：无法去重也无法核实。
func (e *Engine) extractAllNews(ctx context.Context, names []string, newsData map[string]string) ([]dm.NewsItem, error) {
	slots := make([][]dm.NewsItem, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency.NewsWorkers)

	for i, name := range names {
		searchText, ok := newsData[name]
		if !ok {
			continue
		}
		g.Go(func() error {
			items, err := e.analyzer.ExtractNews(gctx, name, searchText)
			if err != nil {
				return fmt.Errorf("extract news for %s: %w", name, err)
			}
			var linked []dm.NewsItem
			for _, item := range items {
				if item.URL != "" {
					linked = append(linked, item)
				}
			}
			logger.Log.Infof("  %s: %d 条新闻 (%d 条带链接)", name, len(items), len(linked))
			slots[i] = linked
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []dm.NewsItem
	for _, items := range slots {
		all = append(all, items...)
	}
	return all, nil
}

// saveReport 落盘并回填数据库，两者都是尽力而为
func (e *Engine) saveReport(ctx context.Context, today, html string) {
	if err := os.MkdirAll(e.cfg.Report.Dir, 0o755); err != nil {
		logger.Log.Warnf("无法创建报告目录: %v", err)
	} else {
		path := filepath.Join(e.cfg.Report.Dir, today+".html")
		if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
			logger.Log.Warnf("无法写入报告文件: %v", err)
		} else {
			logger.Log.Infof("  报告已保存到 %s", path)
		}
	}

	if err := e.runs.BackfillReport(ctx, today, e.cfg.ProductName, html); err != nil {
		logger.Log.Warnf("无法回填报告到数据库: %v", err)
	}
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n---\n")
}
