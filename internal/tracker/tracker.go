package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arjunkrish/rival_radar/internal/model"
)

// Normalize 竞品身份的归一化：去首尾空白并转小写
// 上游模型对同一家公司可能返回不同大小写/空白，归一化是
// 防止误报"新竞品"的唯一防线，保持独立可测。
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CompetitorStore 竞品登记表的持久化接口
type CompetitorStore interface {
	FindCompetitor(ctx context.Context, normalized string) (*model.CompetitorRecord, error)
	InsertCompetitor(ctx context.Context, rec *model.CompetitorRecord) error
	TouchCompetitor(ctx context.Context, id int, lastSeenDate string) error
	CountCompetitors(ctx context.Context) (int, error)
	ListCompetitors(ctx context.Context) ([]model.CompetitorRecord, error)
}

// Tracker 跨运行的竞品身份追踪
type Tracker struct {
	store CompetitorStore
}

// NewTracker 创建追踪器
func NewTracker(store CompetitorStore) *Tracker {
	return &Tracker{store: store}
}

// IsFirstRun 登记表为空即首跑
// 必须在本次运行写入任何记录之前调用。
func (t *Tracker) IsFirstRun(ctx context.Context) (bool, error) {
	count, err := t.store.CountCompetitors(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check first run: %w", err)
	}
	return count == 0, nil
}

// ClassifyAndRecord 逐个分类竞品并更新登记表
// 输出列表保持输入顺序并使用原始展示名，下游按名字贴"新竞品"标记。
func (t *Tracker) ClassifyAndRecord(ctx context.Context, names []string, asOf time.Time) (newNames, returningNames []string, err error) {
	today := asOf.Format(time.DateOnly)

	for _, name := range names {
		norm := Normalize(name)

		rec, err := t.store.FindCompetitor(ctx, norm)
		if err != nil {
			return nil, nil, err
		}

		if rec == nil {
			err = t.store.InsertCompetitor(ctx, &model.CompetitorRecord{
				Name:           name,
				NormalizedName: norm,
				FirstSeenDate:  today,
				LastSeenDate:   today,
				TimesSeen:      1,
			})
			if err != nil {
				return nil, nil, err
			}
			newNames = append(newNames, name)
		} else {
			if err := t.store.TouchCompetitor(ctx, rec.ID, today); err != nil {
				return nil, nil, err
			}
			returningNames = append(returningNames, name)
		}
	}

	return newNames, returningNames, nil
}

// Known 返回登记表中全部已知竞品，按首次出现时间排序
func (t *Tracker) Known(ctx context.Context) ([]model.CompetitorRecord, error) {
	return t.store.ListCompetitors(ctx)
}
