package slack

import (
	"fmt"
	"strings"
	"time"

	dm "github.com/arjunkrish/rival_radar/internal/model"
)

// Slack 单个 text 字段上限 3000 字符，留一点余量
const blockTextLimit = 2900

// Block Slack Block Kit 块
type Block struct {
	Type string `json:"type"`
	Text *Text  `json:"text,omitempty"`
}

// Text Block Kit 文本对象
type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Payload 一条 Slack 消息
type Payload struct {
	Blocks []Block `json:"blocks"`
}

func section(text string) Block {
	return Block{Type: "section", Text: &Text{Type: "mrkdwn", Text: text}}
}

func header(text string) Block {
	return Block{Type: "header", Text: &Text{Type: "plain_text", Text: text}}
}

func divider() Block {
	return Block{Type: "divider"}
}

func truncate(text string) string {
	if len(text) > blockTextLimit {
		return text[:blockTextLimit] + "..."
	}
	return text
}

func joinN(items []string, n int) string {
	if len(items) == 0 {
		return "N/A"
	}
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}

// FormatMessages 把分析结果拼装成一组 Block Kit 消息
// 第一条是摘要，其余作为线程回复发送。
func FormatMessages(analysis *dm.CompetitiveAnalysis, newNames, returningNames []string, isFirstRun bool, reportURL string, now time.Time) []Payload {
	newSet := make(map[string]bool, len(newNames))
	for _, n := range newNames {
		newSet[n] = true
	}
	today := now.Format("January 2, 2006")

	// === 消息 1: 摘要 + 新竞品警报 ===
	msg1 := []Block{
		header("Competitive Intel Report - " + analysis.ProductName),
		section(fmt.Sprintf("*Date:* %s  |  *Competitors tracked:* %d", today, len(analysis.Competitors))),
		divider(),
		section("*Market Overview*\n" + truncate(analysis.MarketOverview)),
		divider(),
	}

	switch {
	case isFirstRun:
		msg1 = append(msg1, section(":information_source: *First Run* — All competitors are newly tracked. Future reports will highlight only new entrants."))
	case len(newNames) > 0:
		lines := []string{":rotating_light: *New Competitor Alert!*\n"}
		for _, comp := range analysis.Competitors {
			if !newSet[comp.Name] {
				continue
			}
			lines = append(lines,
				fmt.Sprintf(":new: *%s*", comp.Name),
				fmt.Sprintf("  _Strengths:_ %s", joinN(comp.Strengths, 3)),
				fmt.Sprintf("  _Weaknesses:_ %s\n", joinN(comp.Weaknesses, 3)),
			)
		}
		msg1 = append(msg1, section(truncate(strings.Join(lines, "\n"))))
	default:
		msg1 = append(msg1, section(fmt.Sprintf(":white_check_mark: *No new competitors detected.* All %d competitors are returning.", len(returningNames))))
	}

	if reportURL != "" {
		msg1 = append(msg1, divider(), section(fmt.Sprintf(":bar_chart: <%s|View full report>", reportURL)))
	}

	// === 消息 2: 竞品画像 ===
	msg2 := []Block{header("Competitor Profiles")}
	for _, comp := range analysis.Competitors {
		badge := ""
		if newSet[comp.Name] && !isFirstRun {
			badge = " :new:"
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "*%s*%s\n_%s_\n\n", comp.Name, badge, comp.MarketPosition)
		desc := comp.Description
		if len(desc) > 300 {
			desc = desc[:300]
		}
		sb.WriteString(desc + "\n\n*Strengths:*\n")
		for i, s := range comp.Strengths {
			if i >= 4 {
				break
			}
			sb.WriteString("  :white_check_mark: " + s + "\n")
		}
		sb.WriteString("\n*Weaknesses:*\n")
		for i, w := range comp.Weaknesses {
			if i >= 4 {
				break
			}
			sb.WriteString("  :x: " + w + "\n")
		}
		fmt.Fprintf(&sb, "\n*Pricing:* %s\n*Differentiator:* %s", comp.PricingModel, comp.KeyDifferentiator)
		if comp.Sentiment != nil {
			fmt.Fprintf(&sb, "\n_Sentiment:_ %s", comp.Sentiment.NetSentiment)
		}

		msg2 = append(msg2, divider(), section(truncate(sb.String())))
	}

	// === 消息 3: 新闻摘要 + SWOT ===
	msg3 := []Block{header("News Digest & SWOT Analysis")}

	var linked []dm.NewsItem
	for _, item := range analysis.NewsDigest {
		if item.URL != "" {
			linked = append(linked, item)
		}
	}
	if len(linked) > 0 {
		lines := []string{"*:newspaper: Recent News*\n"}
		for i, item := range linked {
			if i >= 8 {
				break
			}
			lines = append(lines, fmt.Sprintf(":small_blue_diamond: <%s|%s> — %s (%s)", item.URL, item.Headline, item.Summary, item.Date))
		}
		msg3 = append(msg3, section(truncate(strings.Join(lines, "\n"))))
	}

	msg3 = append(msg3, divider(), section(truncate(formatSWOT(analysis))))

	// === 消息 4: 策略 + 威胁/缺口/机会 + 90 天计划 + 关键洞察 ===
	msg4 := []Block{header("Strategy & Action Plan")}

	stratLines := []string{"*:dart: Strategic Recommendations*\n"}
	for _, s := range analysis.Strategies {
		stratLines = append(stratLines,
			fmt.Sprintf("%s *%s* [%s]", priorityEmoji(s.Priority), s.Title, s.Category),
			"  "+s.Description+"\n",
		)
	}
	msg4 = append(msg4, section(truncate(strings.Join(stratLines, "\n"))), divider())

	var tgo []string
	if len(analysis.BiggestThreats) > 0 {
		tgo = append(tgo, "*:rotating_light: Biggest Threats*")
		for _, t := range analysis.BiggestThreats {
			tgo = append(tgo, "  • "+t)
		}
		tgo = append(tgo, "")
	}
	if len(analysis.MarketGaps) > 0 {
		tgo = append(tgo, "*:mag: Market Gaps*")
		for _, g := range analysis.MarketGaps {
			tgo = append(tgo, "  • "+g)
		}
		tgo = append(tgo, "")
	}
	if len(analysis.UrgentOpps) > 0 {
		tgo = append(tgo, "*:rocket: Urgent Opportunities*")
		for _, o := range analysis.UrgentOpps {
			tgo = append(tgo, "  • "+o)
		}
	}
	if len(tgo) > 0 {
		msg4 = append(msg4, section(truncate(strings.Join(tgo, "\n"))), divider())
	}

	if len(analysis.ActionPlan90Day) > 0 {
		planLines := []string{"*:calendar: 90-Day Action Plan*\n"}
		for _, m := range analysis.ActionPlan90Day {
			planLines = append(planLines, fmt.Sprintf("*%s: %s*", m.Month, m.Title), "_"+m.Description+"_")
			for i, a := range m.Actions {
				planLines = append(planLines, fmt.Sprintf("  %d. %s", i+1, a))
			}
			planLines = append(planLines, "")
		}
		msg4 = append(msg4, section(truncate(strings.Join(planLines, "\n"))), divider())
	}

	insightLines := []string{"*:brain: Key Insights*\n"}
	for i, ins := range analysis.KeyInsights {
		insightLines = append(insightLines, fmt.Sprintf("  %d. %s", i+1, ins))
	}
	msg4 = append(msg4, section(truncate(strings.Join(insightLines, "\n"))))

	return []Payload{
		{Blocks: msg1},
		{Blocks: msg2},
		{Blocks: msg3},
		{Blocks: msg4},
	}
}

func formatSWOT(analysis *dm.CompetitiveAnalysis) string {
	bullets := func(items []string) string {
		var sb strings.Builder
		for _, item := range items {
			sb.WriteString("  • " + item + "\n")
		}
		return sb.String()
	}
	return fmt.Sprintf(
		"*SWOT Analysis for %s*\n\n*:muscle: Strengths*\n%s\n*:warning: Weaknesses*\n%s\n*:bulb: Opportunities*\n%s\n*:exclamation: Threats*\n%s",
		analysis.ProductName,
		bullets(analysis.SWOT.Strengths),
		bullets(analysis.SWOT.Weaknesses),
		bullets(analysis.SWOT.Opportunities),
		bullets(analysis.SWOT.Threats),
	)
}

func priorityEmoji(priority string) string {
	switch strings.ToLower(priority) {
	case "high":
		return ":red_circle:"
	case "medium":
		return ":large_orange_circle:"
	case "low":
		return ":white_circle:"
	default:
		return ":black_circle:"
	}
}
