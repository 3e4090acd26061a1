package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/arjunkrish/rival_radar/internal/config"
	"github.com/arjunkrish/rival_radar/internal/logger"
	"github.com/arjunkrish/rival_radar/internal/model"
)

// Storage Postgres 持久层
// competitors 表是跨运行的竞品登记表，analysis_runs 表只追加。
type Storage struct {
	db *sql.DB
}

// NewStorage 建立数据库连接并初始化表结构
func NewStorage(cfg config.DBConfig) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS competitors (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			normalized_name TEXT NOT NULL UNIQUE,
			first_seen_date TEXT NOT NULL,
			last_seen_date TEXT NOT NULL,
			times_seen INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id SERIAL PRIMARY KEY,
			run_date TEXT NOT NULL,
			product_name TEXT NOT NULL,
			analysis_json TEXT NOT NULL,
			competitor_names TEXT NOT NULL,
			new_competitors TEXT NOT NULL,
			report_html TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}

	return nil
}

// FindCompetitor 按归一化名查找竞品记录，不存在时返回 (nil, nil)
func (s *Storage) FindCompetitor(ctx context.Context, normalized string) (*model.CompetitorRecord, error) {
	var rec model.CompetitorRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, normalized_name, first_seen_date, last_seen_date, times_seen
		FROM competitors WHERE normalized_name = $1`,
		normalized).Scan(&rec.ID, &rec.Name, &rec.NormalizedName, &rec.FirstSeenDate, &rec.LastSeenDate, &rec.TimesSeen)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query competitor: %w", err)
	}
	return &rec, nil
}

// InsertCompetitor 首次观察到某竞品时插入新记录
func (s *Storage) InsertCompetitor(ctx context.Context, rec *model.CompetitorRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO competitors (name, normalized_name, first_seen_date, last_seen_date, times_seen)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.Name, rec.NormalizedName, rec.FirstSeenDate, rec.LastSeenDate, rec.TimesSeen)
	if err != nil {
		return fmt.Errorf("failed to insert competitor: %w", err)
	}
	return nil
}

// TouchCompetitor 再次观察到竞品：更新 last_seen 并累加 times_seen
func (s *Storage) TouchCompetitor(ctx context.Context, id int, lastSeenDate string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE competitors SET last_seen_date = $1, times_seen = times_seen + 1 WHERE id = $2`,
		lastSeenDate, id)
	if err != nil {
		return fmt.Errorf("failed to update competitor: %w", err)
	}
	return nil
}

// CountCompetitors 返回登记表中的记录数，用于首跑判定
func (s *Storage) CountCompetitors(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM competitors`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count competitors: %w", err)
	}
	return count, nil
}

// ListCompetitors 按首次出现时间列出全部已知竞品
func (s *Storage) ListCompetitors(ctx context.Context) ([]model.CompetitorRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, normalized_name, first_seen_date, last_seen_date, times_seen
		FROM competitors ORDER BY first_seen_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitors: %w", err)
	}
	defer rows.Close()

	var records []model.CompetitorRecord
	for rows.Next() {
		var rec model.CompetitorRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.NormalizedName, &rec.FirstSeenDate, &rec.LastSeenDate, &rec.TimesSeen); err != nil {
			return nil, fmt.Errorf("failed to scan competitor: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// AppendRun 追加一条运行记录，从不去重：同一天跑两次就有两行
func (s *Storage) AppendRun(ctx context.Context, run *model.AnalysisRun) (int, error) {
	names, err := json.Marshal(run.CompetitorNames)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal competitor names: %w", err)
	}
	newNames, err := json.Marshal(run.NewCompetitors)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal new competitors: %w", err)
	}

	var id int
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO analysis_runs (run_date, product_name, analysis_json, competitor_names, new_competitors)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		run.RunDate, run.ProductName, run.AnalysisJSON, string(names), string(newNames)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis run: %w", err)
	}
	return id, nil
}

// BackfillReport 把报告 HTML 回填到当天最近一条运行记录
// 找不到匹配行时只记日志，报告存储是尽力而为的。
func (s *Storage) BackfillReport(ctx context.Context, runDate, productName, html string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE analysis_runs SET report_html = $1
		WHERE id = (
			SELECT id FROM analysis_runs
			WHERE run_date = $2 AND product_name = $3
			ORDER BY id DESC LIMIT 1
		)`,
		html, runDate, productName)
	if err != nil {
		return fmt.Errorf("failed to backfill report: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		logger.Log.Warnf("未找到可回填报告的运行记录 [%s / %s]", runDate, productName)
	}
	return nil
}
