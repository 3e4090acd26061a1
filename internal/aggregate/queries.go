package aggregate

import (
	"fmt"
	"strings"
	"time"
)

// 产品级第一轮查询：竞品发现为主
var initialQueries = []string{
	"{product} competitors alternatives India micromobility",
	"{product} vs comparison pricing electric scooter bike sharing",
	"{product} market share reviews pros cons India urban mobility",
}

// deepQueries 产品级第二轮查询：资金、增长、口碑等更广的信号
// 带年份的模板按当前日期生成，保持查询的时效性。
func deepQueries(now time.Time) []string {
	year := now.Year()
	return []string{
		fmt.Sprintf("{product} competitor funding raised %d %d India", year-1, year),
		"{product} competitor growth revenue users micromobility India",
		fmt.Sprintf("{product} competitor new features launches %d electric mobility", year),
		"{product} alternatives what's better features bike sharing scooter",
		"{product} alternatives customer complaints problems India",
		"{product} competitor reviews what users love hate",
		"{product} competitor partnerships acquisitions India",
		"{product} market gaps unmet needs missing features micromobility",
		fmt.Sprintf("{product} industry trends predictions %d India EV last mile", year),
	}
}

// newsQueries 按当前日期生成竞品新闻查询
// 站点过滤锁定主流科技/财经媒体，时间窗口为今年以来。
func newsQueries(now time.Time) []string {
	year := now.Year()
	month := now.Month().String()
	prevMonth := now.AddDate(0, -1, 0).Month().String()
	return []string{
		fmt.Sprintf("{competitor} news site:techcrunch.com OR site:economictimes.com OR site:inc42.com OR site:entrackr.com after:%d-01-01", year),
		fmt.Sprintf("{competitor} announcement %s %d OR %s %d", prevMonth, year, month, year),
	}
}

// interpolate 将名称代入查询模板
func interpolate(template, name string) string {
	r := strings.NewReplacer("{product}", name, "{competitor}", name)
	return r.Replace(template)
}
