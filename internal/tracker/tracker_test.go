package tracker

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/arjunkrish/rival_radar/internal/model"
)

// mockStore 内存版竞品登记表
type mockStore struct {
	records map[string]*model.CompetitorRecord
	nextID  int
}

func newMockStore() *mockStore {
	return &mockStore{records: make(map[string]*model.CompetitorRecord), nextID: 1}
}

func (m *mockStore) FindCompetitor(ctx context.Context, normalized string) (*model.CompetitorRecord, error) {
	rec, ok := m.records[normalized]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *mockStore) InsertCompetitor(ctx context.Context, rec *model.CompetitorRecord) error {
	cp := *rec
	cp.ID = m.nextID
	m.nextID++
	m.records[rec.NormalizedName] = &cp
	return nil
}

func (m *mockStore) TouchCompetitor(ctx context.Context, id int, lastSeenDate string) error {
	for _, rec := range m.records {
		if rec.ID == id {
			rec.LastSeenDate = lastSeenDate
			rec.TimesSeen++
			return nil
		}
	}
	return nil
}

func (m *mockStore) CountCompetitors(ctx context.Context) (int, error) {
	return len(m.records), nil
}

func (m *mockStore) ListCompetitors(ctx context.Context) ([]model.CompetitorRecord, error) {
	var records []model.CompetitorRecord
	for _, rec := range m.records {
		records = append(records, *rec)
	}
	return records, nil
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Bounce", "bounce"},
		{"  Yulu 2Wheel  ", "yulu 2wheel"},
		{"VOGO", "vogo"},
		{"bounce", "bounce"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
		// 归一化必须是幂等的
		if got := Normalize(Normalize(c.in)); got != c.want {
			t.Errorf("Normalize not idempotent for %q", c.in)
		}
	}
}

func TestTracker_IsFirstRun(t *testing.T) {
	store := newMockStore()
	tr := NewTracker(store)
	ctx := context.Background()

	first, err := tr.IsFirstRun(ctx)
	if err != nil {
		t.Fatalf("IsFirstRun() error = %v", err)
	}
	if !first {
		t.Error("IsFirstRun() = false on empty registry, want true")
	}

	if _, _, err := tr.ClassifyAndRecord(ctx, []string{"Bounce"}, time.Now()); err != nil {
		t.Fatalf("ClassifyAndRecord() error = %v", err)
	}

	first, err = tr.IsFirstRun(ctx)
	if err != nil {
		t.Fatalf("IsFirstRun() error = %v", err)
	}
	if first {
		t.Error("IsFirstRun() = true after a record was written, want false")
	}
}

func TestTracker_ClassifyAndRecord_NewThenReturning(t *testing.T) {
	store := newMockStore()
	tr := NewTracker(store)
	ctx := context.Background()

	day1 := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	// 第一次运行：全部是新竞品
	newNames, returning, err := tr.ClassifyAndRecord(ctx, []string{"Bounce", "Vogo"}, day1)
	if err != nil {
		t.Fatalf("ClassifyAndRecord() error = %v", err)
	}
	if !reflect.DeepEqual(newNames, []string{"Bounce", "Vogo"}) {
		t.Errorf("newNames = %v, want [Bounce Vogo]", newNames)
	}
	if len(returning) != 0 {
		t.Errorf("returning = %v, want empty", returning)
	}

	// 第二次运行：大小写不同也要识别为同一家公司
	newNames, returning, err = tr.ClassifyAndRecord(ctx, []string{"bounce", "Yulu 2Wheel", "Vogo"}, day2)
	if err != nil {
		t.Fatalf("ClassifyAndRecord() error = %v", err)
	}
	if !reflect.DeepEqual(newNames, []string{"Yulu 2Wheel"}) {
		t.Errorf("newNames = %v, want [Yulu 2Wheel]", newNames)
	}
	// 回归列表保持输入顺序并使用本次运行的展示名
	if !reflect.DeepEqual(returning, []string{"bounce", "Vogo"}) {
		t.Errorf("returning = %v, want [bounce Vogo]", returning)
	}

	// 回归竞品只更新 last_seen 与次数，首见日期不变
	rec := store.records["bounce"]
	if rec == nil {
		t.Fatal("record for bounce missing")
	}
	if rec.TimesSeen != 2 {
		t.Errorf("TimesSeen = %d, want 2", rec.TimesSeen)
	}
	if rec.FirstSeenDate != "2026-08-31" {
		t.Errorf("FirstSeenDate = %q, want 2026-08-31", rec.FirstSeenDate)
	}
	if rec.LastSeenDate != "2026-09-01" {
		t.Errorf("LastSeenDate = %q, want 2026-09-01", rec.LastSeenDate)
	}

	known, err := tr.Known(ctx)
	if err != nil {
		t.Fatalf("Known() error = %v", err)
	}
	if len(known) != 3 {
		t.Errorf("Known() = %d records, want 3", len(known))
	}
}

func TestTracker_ClassifyAndRecord_DuplicateNamesInOneRun(t *testing.T) {
	store := newMockStore()
	tr := NewTracker(store)
	ctx := context.Background()

	// 同一次运行里重复出现：首次算新，后续算回归
	newNames, returning, err := tr.ClassifyAndRecord(ctx, []string{"Rapido", "RAPIDO"}, time.Now())
	if err != nil {
		t.Fatalf("ClassifyAndRecord() error = %v", err)
	}
	if !reflect.DeepEqual(newNames, []string{"Rapido"}) {
		t.Errorf("newNames = %v, want [Rapido]", newNames)
	}
	if !reflect.DeepEqual(returning, []string{"RAPIDO"}) {
		t.Errorf("returning = %v, want [RAPIDO]", returning)
	}
	if len(store.records) != 1 {
		t.Errorf("registry size = %d, want 1", len(store.records))
	}
}
