package report

import (
	"bytes"
	"html/template"
	"time"

	dm "github.com/arjunkrish/rival_radar/internal/model"
)

// HTMLData 用于模板渲染的数据
type HTMLData struct {
	Date       string
	Analysis   *dm.CompetitiveAnalysis
	NewSet     map[string]bool
	NewCount   int
	IsFirstRun bool
	NewsItems  []dm.NewsItem
}

const htmlTpl = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Competitive Intel | {{.Analysis.ProductName}}</title>
    <style>
        *,*::before,*::after{box-sizing:border-box;margin:0;padding:0}
        body{font-family:'Inter',system-ui,sans-serif;background:#f8fafc;color:#1e293b;line-height:1.6}
        .container{max-width:1100px;margin:0 auto;padding:20px}
        header{background:linear-gradient(135deg,#4f46e5,#7c3aed);color:#fff;padding:32px 0;text-align:center}
        header h1{font-size:1.8rem;font-weight:700}
        header p{opacity:.85;margin-top:4px}
        .kpi-row{display:grid;grid-template-columns:repeat(auto-fit,minmax(180px,1fr));gap:16px;margin:24px 0}
        .kpi-card{background:#fff;border-radius:12px;padding:20px;text-align:center;box-shadow:0 1px 3px rgba(0,0,0,.08)}
        .kpi-card .num{font-size:2rem;font-weight:700;color:#4f46e5}
        .kpi-card .label{font-size:.85rem;color:#64748b;margin-top:4px}
        .card{background:#fff;border-radius:12px;padding:20px;margin-bottom:16px;box-shadow:0 1px 3px rgba(0,0,0,.08)}
        .badge{display:inline-block;padding:2px 10px;border-radius:99px;color:#fff;font-size:.75rem;font-weight:600;text-transform:uppercase}
        .new-badge{background:#ef4444}
        .banner{background:#eef2ff;border-left:4px solid #4f46e5;border-radius:8px;padding:14px 18px;margin-bottom:20px}
        .swot-grid{display:grid;grid-template-columns:repeat(auto-fit,minmax(240px,1fr));gap:16px}
        .swot-cell{background:#fff;border-radius:12px;padding:16px;box-shadow:0 1px 3px rgba(0,0,0,.08)}
        h2{font-size:1.3rem;font-weight:700;margin:24px 0 16px;color:#1e293b}
        h3{font-size:1.1rem;font-weight:600;margin-bottom:8px}
        ul{padding-left:20px}
        a{color:#4f46e5;text-decoration:none}
        a:hover{text-decoration:underline}
        .muted{color:#94a3b8;font-size:.9rem}
        blockquote{border-left:3px solid #c7d2fe;padding-left:12px;color:#475569;margin:8px 0}
    </style>
</head>
<body>
<header>
    <h1>Competitive Intel Report — {{.Analysis.ProductName}}</h1>
    <p>{{.Date}}</p>
</header>
<div class="container">
    <div class="kpi-row">
        <div class="kpi-card"><div class="num">{{len .Analysis.Competitors}}</div><div class="label">Competitors tracked</div></div>
        <div class="kpi-card"><div class="num">{{.NewCount}}</div><div class="label">New this run</div></div>
        <div class="kpi-card"><div class="num">{{len .NewsItems}}</div><div class="label">News items</div></div>
    </div>

    {{if .IsFirstRun}}
    <div class="banner">First run — no baseline yet. All competitors are newly tracked; future reports will highlight only new entrants.</div>
    {{else if .NewCount}}
    <div class="banner">New competitor alert: {{range $i, $c := .Analysis.Competitors}}{{if index $.NewSet $c.Name}}{{if $i}} {{end}}<strong>{{$c.Name}}</strong>{{end}}{{end}}</div>
    {{end}}

    <h2>Market Overview</h2>
    <div class="card">{{.Analysis.MarketOverview}}</div>

    <h2>Competitors</h2>
    {{range .Analysis.Competitors}}
    <div class="card">
        <h3>{{.Name}} {{if (and (index $.NewSet .Name) (not $.IsFirstRun))}}<span class="badge new-badge">new</span>{{end}}</h3>
        <p class="muted">{{.MarketPosition}}</p>
        <p>{{.Description}}</p>
        <h3>Strengths</h3>
        <ul>{{range .Strengths}}<li>{{.}}</li>{{end}}</ul>
        <h3>Weaknesses</h3>
        <ul>{{range .Weaknesses}}<li>{{.}}</li>{{end}}</ul>
        <p><strong>Pricing:</strong> {{.PricingModel}}</p>
        <p><strong>Differentiator:</strong> {{.KeyDifferentiator}}</p>
        {{if .Sentiment}}<p><strong>Sentiment:</strong> {{.Sentiment.NetSentiment}}</p>{{end}}
    </div>
    {{end}}

    {{if .NewsItems}}
    <h2>News Digest</h2>
    {{range .NewsItems}}
    <div class="card">
        <p><a href="{{.URL}}">{{.Headline}}</a> <span class="muted">{{.Date}} · {{.Type}} · {{.CompetitorName}}</span></p>
        <p>{{.Summary}}</p>
    </div>
    {{end}}
    {{end}}

    <h2>SWOT — {{.Analysis.ProductName}}</h2>
    <div class="swot-grid">
        <div class="swot-cell"><h3>Strengths</h3><ul>{{range .Analysis.SWOT.Strengths}}<li>{{.}}</li>{{end}}</ul></div>
        <div class="swot-cell"><h3>Weaknesses</h3><ul>{{range .Analysis.SWOT.Weaknesses}}<li>{{.}}</li>{{end}}</ul></div>
        <div class="swot-cell"><h3>Opportunities</h3><ul>{{range .Analysis.SWOT.Opportunities}}<li>{{.}}</li>{{end}}</ul></div>
        <div class="swot-cell"><h3>Threats</h3><ul>{{range .Analysis.SWOT.Threats}}<li>{{.}}</li>{{end}}</ul></div>
    </div>

    <h2>Strategy Recommendations</h2>
    {{range .Analysis.Strategies}}
    <div class="card">
        <h3>{{.Title}} <span class="muted">[{{.Priority}} / {{.Category}}]</span></h3>
        <p>{{.Description}}</p>
    </div>
    {{end}}

    {{if .Analysis.BiggestThreats}}
    <h2>Biggest Threats</h2>
    <div class="card"><ul>{{range .Analysis.BiggestThreats}}<li>{{.}}</li>{{end}}</ul></div>
    {{end}}
    {{if .Analysis.MarketGaps}}
    <h2>Market Gaps</h2>
    <div class="card"><ul>{{range .Analysis.MarketGaps}}<li>{{.}}</li>{{end}}</ul></div>
    {{end}}
    {{if .Analysis.UrgentOpps}}
    <h2>Urgent Opportunities</h2>
    <div class="card"><ul>{{range .Analysis.UrgentOpps}}<li>{{.}}</li>{{end}}</ul></div>
    {{end}}

    {{if .Analysis.ActionPlan90Day}}
    <h2>90-Day Action Plan</h2>
    {{range .Analysis.ActionPlan90Day}}
    <div class="card">
        <h3>{{.Month}}: {{.Title}}</h3>
        <p>{{.Description}}</p>
        <ul>{{range .Actions}}<li>{{.}}</li>{{end}}</ul>
    </div>
    {{end}}
    {{end}}

    <h2>Key Insights</h2>
    <div class="card"><ul>{{range .Analysis.KeyInsights}}<li>{{.}}</li>{{end}}</ul></div>

    {{if .Analysis.GigWorkerPulse}}
    <h2>Gig Worker Pulse</h2>
    <div class="card">
        {{range .Analysis.GigWorkerPulse}}<blockquote>{{.Quote}} <span class="muted">— {{.SourcePlatform}}</span></blockquote>{{end}}
    </div>
    {{end}}
</div>
</body>
</html>`

var reportTemplate = template.Must(template.New("report").Parse(htmlTpl))

// Render 渲染完整的 HTML 报告
// 首跑时不渲染"新竞品"标记，全部竞品都是平凡的新记录。
func Render(analysis *dm.CompetitiveAnalysis, newNames []string, isFirstRun bool, now time.Time) (string, error) {
	newSet := make(map[string]bool, len(newNames))
	for _, n := range newNames {
		newSet[n] = true
	}

	// 只展示带链接的新闻条目
	var linked []dm.NewsItem
	for _, item := range analysis.NewsDigest {
		if item.URL != "" {
			linked = append(linked, item)
		}
	}

	data := HTMLData{
		Date:       now.Format("January 2, 2006"),
		Analysis:   analysis,
		NewSet:     newSet,
		NewCount:   len(newNames),
		IsFirstRun: isFirstRun,
		NewsItems:  linked,
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
