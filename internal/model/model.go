package model

// CompetitorInsights 面向目标客群的竞品洞察
type CompetitorInsights struct {
	TopFeatures     []string `json:"top_features"`
	GrowthSignals   []string `json:"growth_signals"`
	WinningSegments []string `json:"winning_segments"`
	MarketingAngles []string `json:"marketing_angles"`
}

// RecentDevelopment 竞品近期动态
type RecentDevelopment struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Type     string `json:"type"`
	Recency  string `json:"recency"`
}

// CustomerSentiment 用户口碑
type CustomerSentiment struct {
	WhatUsersLove    []string `json:"what_users_love"`
	CommonComplaints []string `json:"common_complaints"`
	NetSentiment     string   `json:"net_sentiment"` // positive / mixed / negative
}

// Competitor 单个竞品画像
// 上游模型不提供稳定 ID，竞品身份仅由 Name 字符串表达，
// 归一化在 tracker 层完成。
type Competitor struct {
	Name              string              `json:"name"`
	Description       string              `json:"description"`
	Strengths         []string            `json:"strengths"`
	Weaknesses        []string            `json:"weaknesses"`
	MarketPosition    string              `json:"market_position"`
	PricingModel      string              `json:"pricing_model"`
	KeyDifferentiator string              `json:"key_differentiator"`
	Insights          *CompetitorInsights `json:"insights,omitempty"`
	RecentDevs        []RecentDevelopment `json:"recent_developments,omitempty"`
	Sentiment         *CustomerSentiment  `json:"sentiment,omitempty"`
}

// SWOTAnalysis SWOT 四象限
type SWOTAnalysis struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// StrategyRecommendation 策略建议
type StrategyRecommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
}

// MonthlyAction 90 天行动计划中的单月里程碑
type MonthlyAction struct {
	Month       string   `json:"month"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

// NewsItem 类型枚举
const (
	NewsTypeLaunch      = "launch"
	NewsTypeFunding     = "funding"
	NewsTypePartnership = "partnership"
	NewsTypeControversy = "controversy"
	NewsTypeGrowth      = "growth"
)

// NewsItem 竞品新闻条目，由新闻提取步骤产出
type NewsItem struct {
	Headline       string `json:"headline"`
	CompetitorName string `json:"competitor_name"`
	Summary        string `json:"summary"`
	URL            string `json:"url,omitempty"`
	Date           string `json:"date"`
	Type           string `json:"type"`
}

// NewsExtraction 新闻提取模型的响应载体
type NewsExtraction struct {
	Items []NewsItem `json:"items"`
}

// WorkerPulseItem 一线骑手/租车用户的原声引用
type WorkerPulseItem struct {
	Quote          string `json:"quote"`
	SourcePlatform string `json:"source_platform"`
}

// CompetitiveAnalysis 一次运行的完整结构化分析结果
type CompetitiveAnalysis struct {
	ProductName     string                   `json:"product_name"`
	MarketOverview  string                   `json:"market_overview"`
	Competitors     []Competitor             `json:"competitors"`
	SWOT            SWOTAnalysis             `json:"swot"`
	Strategies      []StrategyRecommendation `json:"strategies"`
	KeyInsights     []string                 `json:"key_insights"`
	NewsDigest      []NewsItem               `json:"news_digest,omitempty"`
	BiggestThreats  []string                 `json:"biggest_threats,omitempty"`
	MarketGaps      []string                 `json:"market_gaps,omitempty"`
	UrgentOpps      []string                 `json:"urgent_opportunities,omitempty"`
	ActionPlan90Day []MonthlyAction          `json:"action_plan_90day,omitempty"`
	GigWorkerPulse  []WorkerPulseItem        `json:"gig_worker_pulse,omitempty"`
}

// CompetitorNames 按出现顺序返回竞品展示名
func (a *CompetitiveAnalysis) CompetitorNames() []string {
	names := make([]string, 0, len(a.Competitors))
	for _, c := range a.Competitors {
		names = append(names, c.Name)
	}
	return names
}

// CompetitorRecord 竞品登记表中的持久化记录
type CompetitorRecord struct {
	ID             int
	Name           string // 首次观察到的展示名
	NormalizedName string
	FirstSeenDate  string
	LastSeenDate   string
	TimesSeen      int
}

// AnalysisRun 一次运行的持久化记录，仅追加
type AnalysisRun struct {
	ID              int
	RunDate         string
	ProductName     string
	AnalysisJSON    string
	CompetitorNames []string
	NewCompetitors  []string
	ReportHTML      string
	CreatedAt       string
}
