package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	ProductName string            `yaml:"product_name"`
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Limits      LimitsConfig      `yaml:"limits"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
	Slack       SlackConfig       `yaml:"slack"`
	Report      ReportConfig      `yaml:"report"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
}

// ServerConfig 报告查看服务的 HTTP 配置
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider string        `yaml:"provider"`
	Tavily   TavilyConfig  `yaml:"tavily"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// LimitsConfig 搜索聚合的限制参数
type LimitsConfig struct {
	MaxResults       int  `yaml:"max_results"`        // 每条查询的最大返回数
	QueryTimeout     int  `yaml:"query_timeout"`      // 单条查询超时（秒）
	MaxCombinedChars int  `yaml:"max_combined_chars"` // 交给 LLM 的文本上限
	EnrichContent    bool `yaml:"enrich_content"`     // 摘要过短时抓取正文
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS         int `yaml:"qps"`
	RPM         int `yaml:"rpm"`
	NewsWorkers int `yaml:"news_workers"` // 竞品新闻提取的并发数
}

// DBConfig 数据库相关配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// SlackConfig Slack 投递配置
type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	BotToken   string `yaml:"bot_token"`
	Channel    string `yaml:"channel"`
}

// ReportConfig 报告输出配置
type ReportConfig struct {
	Dir     string `yaml:"dir"`      // HTML 报告落盘目录
	BaseURL string `yaml:"base_url"` // 报告服务地址，用于 Slack 链接
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// LoadConfig 从指定路径加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ProductName == "" {
		c.ProductName = "Yulu"
	}
	if c.Limits.MaxResults == 0 {
		c.Limits.MaxResults = 5
	}
	if c.Limits.QueryTimeout == 0 {
		c.Limits.QueryTimeout = 30
	}
	if c.Limits.MaxCombinedChars == 0 {
		c.Limits.MaxCombinedChars = 60000
	}
	if c.Concurrency.QPS == 0 {
		c.Concurrency.QPS = 1
	}
	if c.Concurrency.RPM == 0 {
		c.Concurrency.RPM = 30
	}
	if c.Concurrency.NewsWorkers == 0 {
		c.Concurrency.NewsWorkers = 3
	}
	if c.Report.Dir == "" {
		c.Report.Dir = "reports"
	}
}

// Validate 校验启动必需的配置项，缺失时直接失败
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("配置错误: 未设置 llm.api_key")
	}
	if c.Search.Provider == "tavily" && c.Search.Tavily.APIKey == "" {
		return fmt.Errorf("配置错误: 未设置 search.tavily.api_key")
	}
	if c.Search.Provider == "searxng" && c.Search.SearXNG.BaseURL == "" {
		return fmt.Errorf("配置错误: 未设置 search.searxng.base_url")
	}
	if c.Slack.WebhookURL == "" && (c.Slack.BotToken == "" || c.Slack.Channel == "") {
		return fmt.Errorf("配置错误: 未设置 Slack 凭证 (webhook_url 或 bot_token + channel)")
	}
	return nil
}
