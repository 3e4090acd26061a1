package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
llm:
  api_key: "sk-test"
search:
  provider: "tavily"
  tavily:
    api_key: "tvly-test"
slack:
  webhook_url: "https://hooks.slack.com/services/x"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.ProductName != "Yulu" {
		t.Errorf("ProductName = %q, want default Yulu", cfg.ProductName)
	}
	if cfg.Limits.MaxResults != 5 || cfg.Limits.QueryTimeout != 30 || cfg.Limits.MaxCombinedChars != 60000 {
		t.Errorf("Limits defaults = %+v", cfg.Limits)
	}
	if cfg.Concurrency.NewsWorkers != 3 {
		t.Errorf("NewsWorkers = %d, want 3", cfg.Concurrency.NewsWorkers)
	}
	if cfg.Report.Dir != "reports" {
		t.Errorf("Report.Dir = %q, want reports", cfg.Report.Dir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate_MissingCredentials(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing llm key", `
search:
  provider: "tavily"
  tavily:
    api_key: "tvly-test"
slack:
  webhook_url: "https://hooks.slack.com/services/x"
`},
		{"missing tavily key", `
llm:
  api_key: "sk-test"
search:
  provider: "tavily"
slack:
  webhook_url: "https://hooks.slack.com/services/x"
`},
		{"missing searxng url", `
llm:
  api_key: "sk-test"
search:
  provider: "searxng"
slack:
  webhook_url: "https://hooks.slack.com/services/x"
`},
		{"missing slack", `
llm:
  api_key: "sk-test"
search:
  provider: "tavily"
  tavily:
    api_key: "tvly-test"
`},
		{"bot token without channel", `
llm:
  api_key: "sk-test"
search:
  provider: "tavily"
  tavily:
    api_key: "tvly-test"
slack:
  bot_token: "xoxb-test"
`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, c.yaml))
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestValidate_BotTokenWithChannel(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
llm:
  api_key: "sk-test"
search:
  provider: "tavily"
  tavily:
    api_key: "tvly-test"
slack:
  bot_token: "xoxb-test"
  channel: "#intel"
`))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
