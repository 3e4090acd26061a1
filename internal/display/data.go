package display

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	_ "github.com/lib/pq"
)

// Data 数据库连接资源
type Data struct {
	db *sql.DB
}

// NewData 建立数据库连接，返回清理函数
func NewData(driver, source string, logger log.Logger) (*Data, func(), error) {
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
		db.Close()
	}
	return &Data{db: db}, cleanup, nil
}

type runRepo struct {
	data *Data
	log  *log.Helper
}

// NewRunRepo 创建运行历史仓库
func NewRunRepo(data *Data, logger log.Logger) RunRepo {
	return &runRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *runRepo) ListRuns(ctx context.Context, page, pageSize int) ([]*RunSummary, int, error) {
	offset := (page - 1) * pageSize

	rows, err := r.data.db.QueryContext(ctx, `
		SELECT id, run_date, product_name, competitor_names, new_competitors, created_at
		FROM analysis_runs
		ORDER BY id DESC
		LIMIT $1 OFFSET $2`,
		pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var summaries []*RunSummary
	for rows.Next() {
		var (
			s         RunSummary
			namesJSON string
			newJSON   string
		)
		if err := rows.Scan(&s.ID, &s.RunDate, &s.ProductName, &namesJSON, &newJSON, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan run: %w", err)
		}

		// 竞品列表以 JSON 数组存储，这里只需要数量
		var names, newNames []string
		if err := json.Unmarshal([]byte(namesJSON), &names); err != nil {
			r.log.Warnf("bad competitor_names in run %d: %v", s.ID, err)
		}
		if err := json.Unmarshal([]byte(newJSON), &newNames); err != nil {
			r.log.Warnf("bad new_competitors in run %d: %v", s.ID, err)
		}
		s.CompetitorCount = len(names)
		s.NewCount = len(newNames)
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.data.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analysis_runs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count runs: %w", err)
	}

	return summaries, total, nil
}

func (r *runRepo) GetReportHTML(ctx context.Context, runDate string) (string, error) {
	var html sql.NullString
	err := r.data.db.QueryRowContext(ctx, `
		SELECT report_html FROM analysis_runs
		WHERE run_date = $1
		ORDER BY id DESC LIMIT 1`,
		runDate).Scan(&html)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query report: %w", err)
	}
	return html.String, nil
}
