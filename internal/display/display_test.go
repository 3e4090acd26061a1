package display

import (
	"context"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
)

// mockRunRepo 模拟运行历史仓库
type mockRunRepo struct {
	lastPage     int
	lastPageSize int
}

func (m *mockRunRepo) ListRuns(ctx context.Context, page, pageSize int) ([]*RunSummary, int, error) {
	m.lastPage = page
	m.lastPageSize = pageSize
	return []*RunSummary{{ID: 1, RunDate: "2026-09-01", ProductName: "Yulu", CompetitorCount: 4, NewCount: 1}}, 1, nil
}

func (m *mockRunRepo) GetReportHTML(ctx context.Context, runDate string) (string, error) {
	if runDate == "2026-09-01" {
		return "<html>report</html>", nil
	}
	return "", nil
}

func TestRunUseCase_List(t *testing.T) {
	repo := &mockRunRepo{}
	uc := NewRunUseCase(repo, log.DefaultLogger)

	runs, total, err := uc.List(context.Background(), 1, 10)
	if err != nil {
		t.Errorf("List() error = %v", err)
		return
	}
	if total != 1 {
		t.Errorf("List() total = %v, want 1", total)
	}
	if len(runs) != 1 || runs[0].ProductName != "Yulu" {
		t.Errorf("List() runs = %v", runs)
	}
}

func TestRunUseCase_List_DefaultsPagination(t *testing.T) {
	repo := &mockRunRepo{}
	uc := NewRunUseCase(repo, log.DefaultLogger)

	if _, _, err := uc.List(context.Background(), 0, -5); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if repo.lastPage != 1 || repo.lastPageSize != 10 {
		t.Errorf("pagination defaults = %d/%d, want 1/10", repo.lastPage, repo.lastPageSize)
	}
}

func TestRunUseCase_Report(t *testing.T) {
	repo := &mockRunRepo{}
	uc := NewRunUseCase(repo, log.DefaultLogger)

	html, err := uc.Report(context.Background(), "2026-09-01")
	if err != nil {
		t.Errorf("Report() error = %v", err)
	}
	if html == "" {
		t.Error("Report() returned empty html for existing date")
	}

	html, err = uc.Report(context.Background(), "2026-01-01")
	if err != nil {
		t.Errorf("Report() error = %v", err)
	}
	if html != "" {
		t.Error("Report() must return empty string for missing date")
	}
}
