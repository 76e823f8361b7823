package stats

import (
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.EnsureSalt(); err != nil {
		t.Fatalf("failed to init salt: %v", err)
	}
	return s
}

func TestNewStoreCreatesDataDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "stats.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer s.Close()
}

func TestSettings(t *testing.T) {
	s := setupTestStore(t)

	if v, err := s.GetSetting("missing"); err != nil || v != "" {
		t.Errorf("GetSetting(missing) = %q, %v", v, err)
	}
	if err := s.SetSetting("k", "v1"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := s.SetSetting("k", "v2"); err != nil {
		t.Fatalf("SetSetting upsert failed: %v", err)
	}
	if v, _ := s.GetSetting("k"); v != "v2" {
		t.Errorf("GetSetting = %q, want v2", v)
	}
}

func TestSaltPersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")

	s1, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := s1.EnsureSalt(); err != nil {
		t.Fatalf("EnsureSalt failed: %v", err)
	}
	hash1 := s1.HashIP("203.0.113.1")
	s1.Close()

	s2, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()
	if err := s2.EnsureSalt(); err != nil {
		t.Fatalf("EnsureSalt on reopen failed: %v", err)
	}
	if got := s2.HashIP("203.0.113.1"); got != hash1 {
		t.Errorf("hash changed across opens: %q vs %q", got, hash1)
	}
}

func TestHashIPNeverExposesAddress(t *testing.T) {
	s := setupTestStore(t)

	h := s.HashIP("203.0.113.1")
	if h == "203.0.113.1" || h == "" {
		t.Errorf("HashIP = %q", h)
	}
	if len(h) != 16 {
		t.Errorf("hash length = %d, want 16", len(h))
	}
	if s.HashIP("203.0.113.2") == h {
		t.Error("different IPs produced the same hash")
	}
}

func TestRecordVisitAndSummary(t *testing.T) {
	s := setupTestStore(t)

	visits := []Visit{
		{Path: "/post-a", Locale: "pt", IPHash: s.HashIP("203.0.113.1")},
		{Path: "/post-a", Locale: "pt", IPHash: s.HashIP("203.0.113.2")},
		{Path: "/en/post-b", Locale: "en", IPHash: s.HashIP("203.0.113.1")},
	}
	for _, v := range visits {
		if err := s.RecordVisit(v); err != nil {
			t.Fatalf("RecordVisit failed: %v", err)
		}
	}

	sum, err := s.Summary(7)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if sum.TotalViews != 3 {
		t.Errorf("TotalViews = %d, want 3", sum.TotalViews)
	}
	if sum.UniqueVisitors != 2 {
		t.Errorf("UniqueVisitors = %d, want 2", sum.UniqueVisitors)
	}
	if len(sum.TopPages) == 0 || sum.TopPages[0].Path != "/post-a" || sum.TopPages[0].Views != 2 {
		t.Errorf("TopPages = %+v", sum.TopPages)
	}
	if len(sum.LocaleViews) != 2 {
		t.Errorf("LocaleViews = %+v", sum.LocaleViews)
	}
	if len(sum.DailyViews) != 1 {
		t.Errorf("DailyViews = %+v", sum.DailyViews)
	}
	// DATE() must be able to parse the stored timestamp text; a NULL day
	// here means the storage format regressed.
	wantDay := time.Now().UTC().Format("2006-01-02")
	if sum.DailyViews[0].Date != wantDay {
		t.Errorf("DailyViews[0].Date = %q, want %q", sum.DailyViews[0].Date, wantDay)
	}
}

func TestVisitTimestampsGroupByDay(t *testing.T) {
	s := setupTestStore(t)

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)
	visits := []Visit{
		{Path: "/a", Locale: "pt", IPHash: "x", Timestamp: yesterday},
		{Path: "/a", Locale: "pt", IPHash: "x", Timestamp: now},
		{Path: "/b", Locale: "pt", IPHash: "x", Timestamp: now},
	}
	for _, v := range visits {
		if err := s.RecordVisit(v); err != nil {
			t.Fatalf("RecordVisit failed: %v", err)
		}
	}

	sum, err := s.Summary(7)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if len(sum.DailyViews) != 2 {
		t.Fatalf("DailyViews = %+v, want two days", sum.DailyViews)
	}
	if sum.DailyViews[0].Date != yesterday.Format("2006-01-02") || sum.DailyViews[0].Views != 1 {
		t.Errorf("DailyViews[0] = %+v", sum.DailyViews[0])
	}
	if sum.DailyViews[1].Date != now.Format("2006-01-02") || sum.DailyViews[1].Views != 2 {
		t.Errorf("DailyViews[1] = %+v", sum.DailyViews[1])
	}
}

func TestDeleteOlderThan(t *testing.T) {
	s := setupTestStore(t)

	old := Visit{Path: "/old", Locale: "pt", IPHash: "x", Timestamp: time.Now().AddDate(0, 0, -30)}
	recent := Visit{Path: "/recent", Locale: "pt", IPHash: "x"}
	if err := s.RecordVisit(old); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordVisit(recent); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteOlderThan(7); err != nil {
		t.Fatalf("DeleteOlderThan failed: %v", err)
	}

	sum, err := s.Summary(60)
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalViews != 1 {
		t.Errorf("TotalViews after cleanup = %d, want 1", sum.TotalViews)
	}
	if len(sum.TopPages) != 1 || sum.TopPages[0].Path != "/recent" {
		t.Errorf("TopPages after cleanup = %+v", sum.TopPages)
	}
}
