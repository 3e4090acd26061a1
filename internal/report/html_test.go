package report

import (
	"strings"
	"testing"
	"time"

	dm "github.com/arjunkrish/rival_radar/internal/model"
)

func sampleAnalysis() *dm.CompetitiveAnalysis {
	return &dm.CompetitiveAnalysis{
		ProductName:    "Yulu",
		MarketOverview: "Shared micromobility in India is consolidating.",
		Competitors: []dm.Competitor{
			{Name: "Bounce", MarketPosition: "challenger", Strengths: []string{"fleet"}, Weaknesses: []string{"ops"}},
			{Name: "Vogo", MarketPosition: "niche", Strengths: []string{"price"}, Weaknesses: []string{"reach"}},
		},
		SWOT: dm.SWOTAnalysis{
			Strengths: []string{"battery swap network"},
			Threats:   []string{"cab aggregators entering rentals"},
		},
		KeyInsights: []string{"double down on B2B fleets"},
		NewsDigest: []dm.NewsItem{
			{Headline: "Bounce raises $50M", CompetitorName: "Bounce", URL: "https://news.com/1", Type: "funding"},
			{Headline: "Unsourced rumor", CompetitorName: "Vogo", Type: "growth"},
		},
	}
}

func TestRender_FirstRunBanner(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	html, err := Render(sampleAnalysis(), []string{"Bounce", "Vogo"}, true, now)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(html, "First run") {
		t.Error("first-run banner missing")
	}
	// 首跑不渲染新竞品标记
	if strings.Contains(html, "new-badge\">new") {
		t.Error("new badge rendered on first run")
	}
	if !strings.Contains(html, "September 1, 2026") {
		t.Error("report date missing")
	}
}

func TestRender_NewBadgeOnLaterRuns(t *testing.T) {
	html, err := Render(sampleAnalysis(), []string{"Vogo"}, false, time.Now())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(html, "New competitor alert") || !strings.Contains(html, "<strong>Vogo</strong>") {
		t.Error("new competitor banner missing")
	}
	if !strings.Contains(html, "Vogo <span class=\"badge new-badge\">new</span>") {
		t.Error("new badge missing on Vogo card")
	}
	if strings.Contains(html, "Bounce <span class=\"badge new-badge\">new</span>") {
		t.Error("returning competitor wrongly badged")
	}
}

func TestRender_DropsNewsWithoutURL(t *testing.T) {
	html, err := Render(sampleAnalysis(), nil, false, time.Now())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(html, "Bounce raises $50M") {
		t.Error("linked news item missing")
	}
	if strings.Contains(html, "Unsourced rumor") {
		t.Error("URL-less news item rendered")
	}
}

func TestRender_EscapesModelOutput(t *testing.T) {
	analysis := sampleAnalysis()
	analysis.MarketOverview = `<script>alert("x")</script>`

	html, err := Render(analysis, nil, false, time.Now())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(html, "<script>alert") {
		t.Error("model output not HTML-escaped")
	}
}
