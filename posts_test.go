package prosa

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

// testPosts builds a small bilingual corpus covering series, tags,
// translations and a draft.
func testPosts() []Post {
	return []Post{
		{
			ID: "pt/go-basico-1", Title: "Go Básico 1", Locale: "pt",
			PublishedAt: day(1), Category: "programacao", Tags: []string{"go", "iniciante"},
			Series: "go-basico", SeriesOrder: 1, TranslationSlug: "go-basics-1",
		},
		{
			ID: "pt/go-basico-2", Title: "Go Básico 2", Locale: "pt",
			PublishedAt: day(5), Category: "programacao", Tags: []string{"go"},
			Series: "go-basico", SeriesOrder: 2,
		},
		{
			ID: "pt/go-basico-3", Title: "Go Básico 3", Locale: "pt",
			PublishedAt: day(9), Category: "programacao", Tags: []string{"go", "http"},
			Series: "go-basico", SeriesOrder: 3,
		},
		{
			ID: "pt/cafe", Title: "Café", Locale: "pt",
			PublishedAt: day(3), Category: "vida", Tags: []string{"cafe"},
		},
		{
			ID: "pt/rascunho", Title: "Rascunho", Locale: "pt",
			PublishedAt: day(10), Category: "programacao", Tags: []string{"go"}, Draft: true,
		},
		{
			ID: "en/go-basics-1", Title: "Go Basics 1", Locale: "en",
			PublishedAt: day(2), Category: "programming", Tags: []string{"go", "beginner"},
			TranslationSlug: "go-basico-1",
		},
	}
}

func newTestResolver(t *testing.T, production bool) *Resolver {
	t.Helper()
	return NewResolver(testPosts(), production)
}

func TestAllPostsSortedByDateDescending(t *testing.T) {
	r := newTestResolver(t, false)
	posts := r.AllPosts()
	for i := 1; i < len(posts); i++ {
		if posts[i].PublishedAt.After(posts[i-1].PublishedAt) {
			t.Errorf("posts[%d] (%s) is newer than posts[%d] (%s)",
				i, posts[i].ID, i-1, posts[i-1].ID)
		}
	}
}

func TestDraftVisibility(t *testing.T) {
	dev := newTestResolver(t, false)
	prod := newTestResolver(t, true)

	if got := len(dev.AllPosts()); got != 6 {
		t.Errorf("dev AllPosts = %d posts, want 6", got)
	}
	if got := len(prod.AllPosts()); got != 5 {
		t.Errorf("prod AllPosts = %d posts, want 5", got)
	}
	for _, p := range prod.AllPosts() {
		if p.Draft {
			t.Errorf("draft %s visible in production", p.ID)
		}
	}
	if _, ok := prod.PostBySlug("rascunho"); ok {
		t.Error("draft reachable by slug in production")
	}
	if _, ok := dev.PostBySlug("rascunho"); !ok {
		t.Error("draft not reachable by slug in development")
	}
}

func TestPostsByLocale(t *testing.T) {
	r := newTestResolver(t, true)
	pt := r.PostsByLocale("pt")
	if len(pt) != 4 {
		t.Fatalf("PostsByLocale(pt) = %d posts, want 4", len(pt))
	}
	for _, p := range pt {
		if p.Locale != "pt" {
			t.Errorf("post %s has locale %q", p.ID, p.Locale)
		}
	}
	if got := len(r.PostsByLocale("en")); got != 1 {
		t.Errorf("PostsByLocale(en) = %d posts, want 1", got)
	}
	if got := len(r.PostsByLocale("de")); got != 0 {
		t.Errorf("PostsByLocale(de) = %d posts, want 0", got)
	}
}

func TestPostsByTagCaseInsensitive(t *testing.T) {
	r := newTestResolver(t, true)
	if got := len(r.PostsByTag("GO")); got != 4 {
		t.Errorf("PostsByTag(GO) = %d posts, want 4", got)
	}
	if got := len(r.PostsByTag("missing")); got != 0 {
		t.Errorf("PostsByTag(missing) = %d posts, want 0", got)
	}
}

func TestPostsByCategoryCaseInsensitive(t *testing.T) {
	r := newTestResolver(t, true)
	if got := len(r.PostsByCategory("Programacao")); got != 3 {
		t.Errorf("PostsByCategory(Programacao) = %d posts, want 3", got)
	}
}

func TestPostsBySeriesOrdered(t *testing.T) {
	r := newTestResolver(t, true)
	posts := r.PostsBySeries("go-basico")
	if len(posts) != 3 {
		t.Fatalf("PostsBySeries = %d posts, want 3", len(posts))
	}
	want := []string{"pt/go-basico-1", "pt/go-basico-2", "pt/go-basico-3"}
	for i, p := range posts {
		if p.ID != want[i] {
			t.Errorf("posts[%d] = %s, want %s", i, p.ID, want[i])
		}
	}
}

func TestPostsBySeriesUnorderedSortsFirst(t *testing.T) {
	posts := []Post{
		{ID: "pt/a", Locale: "pt", PublishedAt: day(1), Series: "s", SeriesOrder: 2},
		{ID: "pt/b", Locale: "pt", PublishedAt: day(2), Series: "s"}, // no explicit order
		{ID: "pt/c", Locale: "pt", PublishedAt: day(3), Series: "s", SeriesOrder: 1},
	}
	r := NewResolver(posts, false)
	got := r.PostsBySeries("s")
	want := []string{"pt/b", "pt/c", "pt/a"}
	for i, p := range got {
		if p.ID != want[i] {
			t.Errorf("got[%d] = %s, want %s", i, p.ID, want[i])
		}
	}
}

func TestSeriesInfo(t *testing.T) {
	r := newTestResolver(t, true)

	info := r.SeriesInfo("go-basico", "pt")
	if info == nil {
		t.Fatal("SeriesInfo returned nil for existing series")
	}
	if info.Name != "Go Basico" {
		t.Errorf("Name = %q, want %q", info.Name, "Go Basico")
	}
	if info.TotalPosts != 3 {
		t.Errorf("TotalPosts = %d, want 3", info.TotalPosts)
	}
	if info.Locale != "pt" {
		t.Errorf("Locale = %q, want pt", info.Locale)
	}

	if got := r.SeriesInfo("missing", ""); got != nil {
		t.Errorf("SeriesInfo(missing) = %+v, want nil", got)
	}
}

func TestAllSeries(t *testing.T) {
	r := newTestResolver(t, true)
	series := r.AllSeries("")
	if len(series) != 1 || series[0] != "go-basico" {
		t.Errorf("AllSeries = %v, want [go-basico]", series)
	}
	if got := r.AllSeries("en"); len(got) != 0 {
		t.Errorf("AllSeries(en) = %v, want empty", got)
	}
}

func TestLocalizedPost(t *testing.T) {
	r := newTestResolver(t, true)

	p, ok := r.LocalizedPost("go-basico-1", "pt")
	if !ok || p.ID != "pt/go-basico-1" {
		t.Errorf("LocalizedPost(go-basico-1, pt) = %s, want pt/go-basico-1", p.ID)
	}

	// Slug that only exists in another locale falls back.
	p, ok = r.LocalizedPost("go-basics-1", "pt")
	if !ok || p.ID != "en/go-basics-1" {
		t.Errorf("LocalizedPost(go-basics-1, pt) = %s, want en/go-basics-1 fallback", p.ID)
	}

	if _, ok := r.LocalizedPost("missing", "pt"); ok {
		t.Error("LocalizedPost found a post for a missing slug")
	}
}

func TestPostTranslation(t *testing.T) {
	r := newTestResolver(t, true)

	pt, _ := r.LocalizedPost("go-basico-1", "pt")
	en, ok := r.PostTranslation(pt)
	if !ok || en.ID != "en/go-basics-1" {
		t.Errorf("PostTranslation = %s, want en/go-basics-1", en.ID)
	}

	back, ok := r.PostTranslation(en)
	if !ok || back.ID != "pt/go-basico-1" {
		t.Errorf("reverse PostTranslation = %s, want pt/go-basico-1", back.ID)
	}

	solo, _ := r.LocalizedPost("cafe", "pt")
	if _, ok := r.PostTranslation(solo); ok {
		t.Error("post without translationSlug reported a translation")
	}
}

func TestSeriesNavigation(t *testing.T) {
	r := newTestResolver(t, true)

	middle, _ := r.LocalizedPost("go-basico-2", "pt")
	nav := r.SeriesNavigation(middle)
	if nav.Total != 3 || nav.Current != 2 {
		t.Errorf("middle: Current/Total = %d/%d, want 2/3", nav.Current, nav.Total)
	}
	if nav.Previous == nil || nav.Previous.ID != "pt/go-basico-1" {
		t.Error("middle: wrong Previous")
	}
	if nav.Next == nil || nav.Next.ID != "pt/go-basico-3" {
		t.Error("middle: wrong Next")
	}

	first, _ := r.LocalizedPost("go-basico-1", "pt")
	nav = r.SeriesNavigation(first)
	if nav.Previous != nil {
		t.Error("first post should have nil Previous")
	}
	if nav.Next == nil || nav.Next.ID != "pt/go-basico-2" {
		t.Error("first: wrong Next")
	}

	last, _ := r.LocalizedPost("go-basico-3", "pt")
	nav = r.SeriesNavigation(last)
	if nav.Next != nil {
		t.Error("last post should have nil Next")
	}

	solo, _ := r.LocalizedPost("cafe", "pt")
	nav = r.SeriesNavigation(solo)
	if nav.Total != 0 || nav.Previous != nil || nav.Next != nil {
		t.Errorf("post without series: nav = %+v, want zero", nav)
	}
}

func TestRelatedPostsScoring(t *testing.T) {
	r := newTestResolver(t, true)

	base, _ := r.LocalizedPost("go-basico-1", "pt")
	related := r.RelatedPosts(base, 10)

	// go-basico-2 and go-basico-3 score 3 (category +2, shared "go" tag +1);
	// cafe scores 0 and is dropped; the en sibling is another locale.
	if len(related) != 2 {
		t.Fatalf("RelatedPosts = %d posts, want 2", len(related))
	}
	for _, p := range related {
		if p.ID == base.ID {
			t.Error("RelatedPosts includes the post itself")
		}
		if p.Locale != base.Locale {
			t.Errorf("RelatedPosts crossed locale: %s", p.ID)
		}
		if p.ID == "pt/cafe" {
			t.Error("zero-score post included")
		}
	}
}

func TestRelatedPostsRanking(t *testing.T) {
	posts := []Post{
		{ID: "pt/base", Locale: "pt", PublishedAt: day(1), Category: "a", Tags: []string{"x", "y"}},
		{ID: "pt/tag-only", Locale: "pt", PublishedAt: day(2), Category: "b", Tags: []string{"x"}},
		{ID: "pt/cat-and-tags", Locale: "pt", PublishedAt: day(3), Category: "a", Tags: []string{"x", "y"}},
	}
	r := NewResolver(posts, false)
	base, _ := r.PostBySlug("base")
	related := r.RelatedPosts(base, 10)
	if len(related) != 2 {
		t.Fatalf("RelatedPosts = %d posts, want 2", len(related))
	}
	// 4 points (2 category + 2 tags) outranks 1 point (1 tag).
	if related[0].ID != "pt/cat-and-tags" || related[1].ID != "pt/tag-only" {
		t.Errorf("ranking = [%s %s], want [pt/cat-and-tags pt/tag-only]",
			related[0].ID, related[1].ID)
	}
}

func TestRelatedPostsLimit(t *testing.T) {
	r := newTestResolver(t, true)
	base, _ := r.LocalizedPost("go-basico-1", "pt")
	if got := len(r.RelatedPosts(base, 1)); got != 1 {
		t.Errorf("RelatedPosts limit 1 = %d posts", got)
	}
	if got := len(r.RelatedPosts(base, 0)); got != 0 {
		t.Errorf("RelatedPosts limit 0 = %d posts", got)
	}
}

func TestAggregations(t *testing.T) {
	r := newTestResolver(t, true)

	tags := r.AllTags("pt")
	want := []string{"cafe", "go", "http", "iniciante"}
	if len(tags) != len(want) {
		t.Fatalf("AllTags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("AllTags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}

	counts := r.TagCounts("pt")
	if counts["go"] != 3 {
		t.Errorf("TagCounts[go] = %d, want 3", counts["go"])
	}
	if got := r.CategoryCounts("pt")["programacao"]; got != 3 {
		t.Errorf("CategoryCounts[programacao] = %d, want 3", got)
	}
	if got := r.SeriesCounts("")["go-basico"]; got != 3 {
		t.Errorf("SeriesCounts[go-basico] = %d, want 3", got)
	}
}

func TestAllPostsEqualDatesKeepProviderOrder(t *testing.T) {
	posts := []Post{
		{ID: "pt/a", Locale: "pt", PublishedAt: day(1)},
		{ID: "pt/b", Locale: "pt", PublishedAt: day(1)},
		{ID: "pt/c", Locale: "pt", PublishedAt: day(1)},
	}
	r := NewResolver(posts, false)
	got := r.AllPosts()
	want := []string{"pt/a", "pt/b", "pt/c"}
	for i, p := range got {
		if p.ID != want[i] {
			t.Errorf("got[%d] = %s, want %s (provider order on equal dates)", i, p.ID, want[i])
		}
	}
}

func TestPostsBySeriesEqualOrdersKeepNewestFirst(t *testing.T) {
	// Both posts carry the same effective order, so their date-descending
	// relative order from the underlying sort must survive.
	posts := []Post{
		{ID: "pt/older", Locale: "pt", PublishedAt: day(1), Series: "s", SeriesOrder: 1},
		{ID: "pt/newer", Locale: "pt", PublishedAt: day(5), Series: "s", SeriesOrder: 1},
	}
	r := NewResolver(posts, false)
	got := r.PostsBySeries("s")
	if got[0].ID != "pt/newer" || got[1].ID != "pt/older" {
		t.Errorf("equal orders = [%s %s], want newest first", got[0].ID, got[1].ID)
	}
}

func TestRelatedPostsEqualScoresKeepNewestFirst(t *testing.T) {
	posts := []Post{
		{ID: "pt/base", Locale: "pt", PublishedAt: day(1), Category: "a", Tags: []string{"x"}},
		{ID: "pt/older", Locale: "pt", PublishedAt: day(2), Category: "a", Tags: []string{"x"}},
		{ID: "pt/newer", Locale: "pt", PublishedAt: day(6), Category: "a", Tags: []string{"x"}},
	}
	r := NewResolver(posts, false)
	base, _ := r.PostBySlug("base")
	related := r.RelatedPosts(base, 10)
	if len(related) != 2 {
		t.Fatalf("RelatedPosts = %d posts, want 2", len(related))
	}
	// Both score 3; the date-descending input order must hold.
	if related[0].ID != "pt/newer" || related[1].ID != "pt/older" {
		t.Errorf("equal scores = [%s %s], want newest first", related[0].ID, related[1].ID)
	}
}

func TestSortPostsByDateDoesNotMutate(t *testing.T) {
	posts := []Post{
		{ID: "pt/old", PublishedAt: day(1)},
		{ID: "pt/new", PublishedAt: day(2)},
	}
	sorted := SortPostsByDate(posts)
	if posts[0].ID != "pt/old" {
		t.Error("input slice was mutated")
	}
	if sorted[0].ID != "pt/new" {
		t.Errorf("sorted[0] = %s, want pt/new", sorted[0].ID)
	}
}

func TestPostSlugAndPath(t *testing.T) {
	p := Post{ID: "en/my-post"}
	if got := PostSlug(p); got != "my-post" {
		t.Errorf("PostSlug = %q, want %q", got, "my-post")
	}
	if got := PostPath(p); got != "/my-post" {
		t.Errorf("PostPath = %q, want %q", got, "/my-post")
	}
	if got := PostSlug(Post{ID: "bare"}); got != "bare" {
		t.Errorf("PostSlug(bare) = %q, want %q", got, "bare")
	}
}

func TestSeriesName(t *testing.T) {
	tests := []struct {
		slug, want string
	}{
		{"go-basics", "Go Basics"},
		{"api-design", "Api Design"},
		{"single", "Single"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SeriesName(tt.slug); got != tt.want {
			t.Errorf("SeriesName(%q) = %q, want %q", tt.slug, got, tt.want)
		}
	}
}

func TestReadingTime(t *testing.T) {
	words := func(n int) string {
		out := make([]byte, 0, n*2)
		for i := 0; i < n; i++ {
			out = append(out, 'w', ' ')
		}
		return string(out)
	}

	tests := []struct {
		name    string
		content string
		wpm     int
		want    int
	}{
		{"empty", "", 200, 0},
		{"rounds up", words(201), 200, 2},
		{"exact", words(400), 200, 2},
		{"short", words(10), 200, 1},
		{"zero wpm uses default", words(200), 0, 1},
	}
	for _, tt := range tests {
		if got := ReadingTime(tt.content, tt.wpm); got != tt.want {
			t.Errorf("%s: ReadingTime = %d, want %d", tt.name, got, tt.want)
		}
	}
}
