package display

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
)

// RunSummary 运行历史列表项
type RunSummary struct {
	ID              int    `json:"id"`
	RunDate         string `json:"run_date"`
	ProductName     string `json:"product_name"`
	CompetitorCount int    `json:"competitor_count"`
	NewCount        int    `json:"new_count"`
	CreatedAt       string `json:"created_at"`
}

// RunRepo 运行历史仓库接口
type RunRepo interface {
	// ListRuns 分页获取运行摘要列表
	ListRuns(ctx context.Context, page, pageSize int) ([]*RunSummary, int, error)
	// GetReportHTML 获取某天最近一次运行的报告 HTML，没有时返回空串
	GetReportHTML(ctx context.Context, runDate string) (string, error)
}

// RunUseCase 报告查看业务逻辑
type RunUseCase struct {
	repo RunRepo
	log  *log.Helper
}

// NewRunUseCase 创建业务逻辑实例
func NewRunUseCase(repo RunRepo, logger log.Logger) *RunUseCase {
	return &RunUseCase{repo: repo, log: log.NewHelper(logger)}
}

// List 分页列出运行摘要
func (uc *RunUseCase) List(ctx context.Context, page, pageSize int) ([]*RunSummary, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return uc.repo.ListRuns(ctx, page, pageSize)
}

// Report 获取某天的报告 HTML
func (uc *RunUseCase) Report(ctx context.Context, runDate string) (string, error) {
	return uc.repo.GetReportHTML(ctx, runDate)
}
