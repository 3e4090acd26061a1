package searxng

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arjunkrish/rival_radar/internal/search"
)

func TestTimeRange(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		start string
		want  string
	}{
		{"", ""},
		{"2026-09-01", "day"},
		{"2026-08-27", "week"},
		{"2026-08-05", "month"},
		{"2026-01-01", "year"},
		{"2024-01-01", ""}, // 超出最大窗口，不限定时间
		{"not-a-date", ""},
	}
	for _, c := range cases {
		if got := timeRange(c.start, now); got != c.want {
			t.Errorf("timeRange(%q) = %q, want %q", c.start, got, c.want)
		}
	}
}

func TestWithinEnd(t *testing.T) {
	cases := []struct {
		published, end string
		want           bool
	}{
		{"2026-08-20T10:00:00Z", "2026-08-31", true},
		{"2026-09-02T10:00:00Z", "2026-08-31", false},
		{"2026-08-31", "2026-08-31", true},
		{"", "2026-08-31", true},             // 缺发布时间则保留
		{"garbage-date", "2026-08-31", true}, // 无法解析则保留
		{"2026-09-02", "", true},             // 没有截止日期
	}
	for _, c := range cases {
		if got := withinEnd(c.published, c.end); got != c.want {
			t.Errorf("withinEnd(%q, %q) = %v, want %v", c.published, c.end, got, c.want)
		}
	}
}

func TestSearch_BuildsQueryAndTrimsResults(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"q":          r.URL.Query().Get("q"),
			"format":     r.URL.Query().Get("format"),
			"categories": r.URL.Query().Get("categories"),
			"time_range": r.URL.Query().Get("time_range"),
		}
		fmt.Fprint(w, `{"query":"bounce","results":[
			{"title":"A","url":"https://a.com","content":"a","publishedDate":"2026-08-20"},
			{"title":"B","url":"https://b.com","content":"b","publishedDate":"2026-08-21"},
			{"title":"C","url":"https://c.com","content":"c","publishedDate":"2026-08-22"}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5)
	today := time.Now().Format(time.DateOnly)
	resp, err := c.Search(context.Background(), &search.Request{
		Query:      "bounce news",
		Topic:      search.TopicNews,
		MaxResults: 2,
		StartDate:  today,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if gotQuery["q"] != "bounce news" || gotQuery["format"] != "json" {
		t.Errorf("query params = %v", gotQuery)
	}
	if gotQuery["categories"] != "news" {
		t.Errorf("categories = %q, want news", gotQuery["categories"])
	}
	if gotQuery["time_range"] != "day" {
		t.Errorf("time_range = %q, want day", gotQuery["time_range"])
	}
	if len(resp.Results) != 2 {
		t.Errorf("len(Results) = %d, want trimmed to 2", len(resp.Results))
	}
}

func TestSearch_FiltersResultsPastEndDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"query":"bounce","results":[
			{"title":"Old","url":"https://a.com","content":"a","publishedDate":"2026-08-20"},
			{"title":"Late","url":"https://b.com","content":"b","publishedDate":"2026-09-05"}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5)
	resp, err := c.Search(context.Background(), &search.Request{
		Query:   "bounce",
		EndDate: "2026-08-31",
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Title != "Old" {
		t.Errorf("Results = %+v, want only the pre-deadline item", resp.Results)
	}
}
