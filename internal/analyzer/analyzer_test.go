package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"
)

// fakeChatModel 返回固定内容的模型
type fakeChatModel struct {
	content string
	err     error
	calls   int
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Role: schema.Assistant, Content: f.content}, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

func (f *fakeChatModel) BindTools(tools []*schema.ToolInfo) error {
	return nil
}

func newTestClient(cm model.ChatModel) *Client {
	return NewClient(cm, rate.NewLimiter(rate.Inf, 1))
}

func TestAnalyzeProduct_StripsMarkdownFences(t *testing.T) {
	cm := &fakeChatModel{content: "```json\n" + `{
		"product_name": "Yulu",
		"market_overview": "micromobility is growing",
		"competitors": [{"name": "Bounce"}, {"name": "Vogo"}]
	}` + "\n```"}
	c := newTestClient(cm)

	analysis, err := c.AnalyzeProduct(context.Background(), "Yulu", "search data")
	if err != nil {
		t.Fatalf("AnalyzeProduct() error = %v", err)
	}
	if analysis.ProductName != "Yulu" {
		t.Errorf("ProductName = %q, want Yulu", analysis.ProductName)
	}
	if len(analysis.Competitors) != 2 || analysis.Competitors[0].Name != "Bounce" {
		t.Errorf("Competitors = %+v", analysis.Competitors)
	}
}

func TestAnalyzeProduct_BackfillsProductName(t *testing.T) {
	cm := &fakeChatModel{content: `{"market_overview": "ok", "competitors": [{"name": "Rapido"}]}`}
	c := newTestClient(cm)

	analysis, err := c.AnalyzeProduct(context.Background(), "Yulu", "data")
	if err != nil {
		t.Fatalf("AnalyzeProduct() error = %v", err)
	}
	if analysis.ProductName != "Yulu" {
		t.Errorf("ProductName = %q, want backfilled Yulu", analysis.ProductName)
	}
}

func TestAnalyzeProduct_MalformedJSON(t *testing.T) {
	cm := &fakeChatModel{content: "I could not produce JSON today, sorry."}
	c := newTestClient(cm)

	_, err := c.AnalyzeProduct(context.Background(), "Yulu", "data")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestAnalyzeProduct_EmptyPayloadIsMalformed(t *testing.T) {
	cm := &fakeChatModel{content: `{}`}
	c := newTestClient(cm)

	_, err := c.AnalyzeProduct(context.Background(), "Yulu", "data")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestAnalyzeProduct_TransportErrorIsNotMalformed(t *testing.T) {
	cm := &fakeChatModel{err: errors.New("connection refused")}
	c := newTestClient(cm)

	_, err := c.AnalyzeProduct(context.Background(), "Yulu", "data")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrMalformedResponse) {
		t.Errorf("transport error wrongly classified as malformed: %v", err)
	}
	if cm.calls != 1 {
		t.Errorf("non-429 error retried %d times, want 1 call", cm.calls)
	}
}

func TestExtractNews(t *testing.T) {
	cm := &fakeChatModel{content: `{"items": [
		{"competitor_name": "Bounce", "headline": "Bounce raises $50M", "type": "funding", "url": "https://news.com/1"},
		{"competitor_name": "Bounce", "headline": "Unverified rumor", "type": "growth", "url": ""}
	]}`}
	c := newTestClient(cm)

	items, err := c.ExtractNews(context.Background(), "Bounce", "news data")
	if err != nil {
		t.Fatalf("ExtractNews() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].Type != "funding" || !strings.Contains(items[0].Headline, "raises") {
		t.Errorf("items[0] = %+v", items[0])
	}
}

func TestCleanJSON(t *testing.T) {
	cases := []struct{ in, want string }{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, c := range cases {
		if got := cleanJSON(c.in); got != c.want {
			t.Errorf("cleanJSON(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
