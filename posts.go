package prosa

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Resolver derives every cross-post view (locale, category, tag, series,
// translation, relatedness) from the flat post list. All methods are pure
// projections over the immutable source list; nothing is memoized, each call
// recomputes from scratch. In production mode draft posts are invisible to
// every view.
type Resolver struct {
	source     []Post // provider order, used as the stable tie-break
	production bool
}

// NewResolver wraps a loaded post list. When production is true, drafts are
// excluded from all derived views.
func NewResolver(posts []Post, production bool) *Resolver {
	return &Resolver{source: posts, production: production}
}

// AllPosts returns the visible posts sorted by publication date descending.
// Posts published at the same instant keep their provider order.
func (r *Resolver) AllPosts() []Post {
	visible := make([]Post, 0, len(r.source))
	for _, p := range r.source {
		if r.production && p.Draft {
			continue
		}
		visible = append(visible, p)
	}
	return SortPostsByDate(visible)
}

// PostsByLocale returns the visible posts of one locale, newest first.
func (r *Resolver) PostsByLocale(locale Locale) []Post {
	return filterPosts(r.AllPosts(), func(p Post) bool {
		return p.Locale == locale
	})
}

// PostsByCategory filters by category, case-insensitively.
func (r *Resolver) PostsByCategory(category string) []Post {
	return filterPosts(r.AllPosts(), func(p Post) bool {
		return strings.EqualFold(p.Category, category)
	})
}

// PostsByTag filters posts carrying the tag, case-insensitively.
func (r *Resolver) PostsByTag(tag string) []Post {
	return filterPosts(r.AllPosts(), func(p Post) bool {
		for _, t := range p.Tags {
			if strings.EqualFold(t, tag) {
				return true
			}
		}
		return false
	})
}

// PostsBySeries returns the posts of a series (exact, case-sensitive slug
// match) ordered by SeriesOrder ascending. Posts without an explicit order
// count as order 0; equal orders keep their newest-first relative order.
func (r *Resolver) PostsBySeries(seriesSlug string) []Post {
	posts := filterPosts(r.AllPosts(), func(p Post) bool {
		return p.Series == seriesSlug
	})
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].SeriesOrder < posts[j].SeriesOrder
	})
	return posts
}

// AllSeries returns the distinct series slugs, alphabetically sorted. An
// empty locale means all locales.
func (r *Resolver) AllSeries(locale Locale) []string {
	set := make(map[string]struct{})
	for _, p := range r.scoped(locale) {
		if p.Series != "" {
			set[p.Series] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// SeriesInfo aggregates a series: its slug, derived display name, ordered
// post list, size and locale (of the first post after filtering). Returns
// nil when no posts match.
type SeriesInfo struct {
	Slug       string
	Name       string
	Posts      []Post
	TotalPosts int
	Locale     Locale
}

// SeriesInfo returns the aggregate view of one series, optionally restricted
// to a locale (empty means all). Nil when the series has no visible posts.
func (r *Resolver) SeriesInfo(seriesSlug string, locale Locale) *SeriesInfo {
	posts := r.PostsBySeries(seriesSlug)
	if locale != "" {
		posts = filterPosts(posts, func(p Post) bool { return p.Locale == locale })
	}
	if len(posts) == 0 {
		return nil
	}
	return &SeriesInfo{
		Slug:       seriesSlug,
		Name:       SeriesName(seriesSlug),
		Posts:      posts,
		TotalPosts: len(posts),
		Locale:     posts[0].Locale,
	}
}

// PostBySlug finds a post whose identity ends in "/<slug>" or equals slug
// verbatim. When the same slug exists in more than one locale the first
// match in date-descending order wins; this lookup does not disambiguate
// locale. Prefer LocalizedPost.
func (r *Resolver) PostBySlug(slug string) (Post, bool) {
	for _, p := range r.AllPosts() {
		if strings.HasSuffix(p.ID, "/"+slug) || p.ID == slug {
			return p, true
		}
	}
	return Post{}, false
}

// LocalizedPost finds the post for a slug, preferring the given locale and
// falling back to any locale carrying the slug.
func (r *Resolver) LocalizedPost(slug string, preferred Locale) (Post, bool) {
	posts := r.AllPosts()
	want := string(preferred) + "/" + slug
	for _, p := range posts {
		if p.ID == want {
			return p, true
		}
	}
	for _, p := range posts {
		if strings.HasSuffix(p.ID, "/"+slug) {
			return p, true
		}
	}
	return Post{}, false
}

// PostTranslation finds the sibling post referenced by TranslationSlug: the
// first post of any other locale whose identity ends in the translation
// slug. Posts without a TranslationSlug have no translation.
func (r *Resolver) PostTranslation(post Post) (Post, bool) {
	if post.TranslationSlug == "" {
		return Post{}, false
	}
	for _, p := range r.AllPosts() {
		if p.Locale != post.Locale && strings.HasSuffix(p.ID, "/"+post.TranslationSlug) {
			return p, true
		}
	}
	return Post{}, false
}

// SeriesNavigation locates a post inside its series, restricted to the
// post's own locale (series navigation never crosses locales). Current is
// 1-based; Previous/Next are nil at the boundaries.
type SeriesNavigation struct {
	Previous   *Post
	Next       *Post
	Total      int
	Current    int
	SeriesName string
	SeriesSlug string
	AllPosts   []Post
}

// SeriesNavigation returns the series position of a post, or a zero result
// when the post has no series.
func (r *Resolver) SeriesNavigation(post Post) SeriesNavigation {
	if post.Series == "" {
		return SeriesNavigation{}
	}
	posts := filterPosts(r.PostsBySeries(post.Series), func(p Post) bool {
		return p.Locale == post.Locale
	})
	idx := -1
	for i, p := range posts {
		if p.ID == post.ID {
			idx = i
			break
		}
	}
	nav := SeriesNavigation{
		Total:      len(posts),
		Current:    idx + 1,
		SeriesName: SeriesName(post.Series),
		SeriesSlug: post.Series,
		AllPosts:   posts,
	}
	if idx > 0 {
		nav.Previous = &posts[idx-1]
	}
	if idx >= 0 && idx < len(posts)-1 {
		nav.Next = &posts[idx+1]
	}
	return nav
}

// RelatedPosts scores every other post of the same locale: +2 for an exact
// category match, +1 per shared tag. Posts scoring zero are dropped; the
// rest sort by score descending (ties keep their newest-first order) and are
// truncated to limit.
func (r *Resolver) RelatedPosts(post Post, limit int) []Post {
	type scored struct {
		post  Post
		score int
	}
	tagSet := make(map[string]struct{}, len(post.Tags))
	for _, t := range post.Tags {
		tagSet[t] = struct{}{}
	}

	var candidates []scored
	for _, p := range r.PostsByLocale(post.Locale) {
		if p.ID == post.ID {
			continue
		}
		score := 0
		if p.Category == post.Category {
			score += 2
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[t]; ok {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{post: p, score: score})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if limit >= 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]Post, len(candidates))
	for i, c := range candidates {
		out[i] = c.post
	}
	return out
}

// AllTags returns the distinct tags, alphabetically sorted. Empty locale
// means all locales.
func (r *Resolver) AllTags(locale Locale) []string {
	set := make(map[string]struct{})
	for _, p := range r.scoped(locale) {
		for _, t := range p.Tags {
			set[t] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// AllCategories returns the distinct categories, alphabetically sorted.
func (r *Resolver) AllCategories(locale Locale) []string {
	set := make(map[string]struct{})
	for _, p := range r.scoped(locale) {
		set[p.Category] = struct{}{}
	}
	return sortedKeys(set)
}

// TagCounts returns how many visible posts carry each tag.
func (r *Resolver) TagCounts(locale Locale) map[string]int {
	counts := make(map[string]int)
	for _, p := range r.scoped(locale) {
		for _, t := range p.Tags {
			counts[t]++
		}
	}
	return counts
}

// CategoryCounts returns how many visible posts each category has.
func (r *Resolver) CategoryCounts(locale Locale) map[string]int {
	counts := make(map[string]int)
	for _, p := range r.scoped(locale) {
		counts[p.Category]++
	}
	return counts
}

// SeriesCounts returns how many visible posts each series has.
func (r *Resolver) SeriesCounts(locale Locale) map[string]int {
	counts := make(map[string]int)
	for _, p := range r.scoped(locale) {
		if p.Series != "" {
			counts[p.Series]++
		}
	}
	return counts
}

// scoped is the shared "optionally locale-filtered" source for aggregations.
func (r *Resolver) scoped(locale Locale) []Post {
	if locale == "" {
		return r.AllPosts()
	}
	return r.PostsByLocale(locale)
}

// SortPostsByDate returns a new slice ordered by publication date
// descending. The input is not mutated; equal dates keep their input order.
func SortPostsByDate(posts []Post) []Post {
	sorted := make([]Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})
	return sorted
}

// PostSlug strips the locale segment from a post identity: "en/my-post"
// yields "my-post". Identities without a separator come back unchanged.
func PostSlug(post Post) string {
	if idx := strings.LastIndex(post.ID, "/"); idx >= 0 {
		return post.ID[idx+1:]
	}
	return post.ID
}

// PostPath returns the site-relative path of a post, without locale prefix.
func PostPath(post Post) string {
	return "/" + PostSlug(post)
}

var seriesNameCaser = cases.Title(language.Und, cases.NoLower)

// SeriesName derives a display name from a series slug: dashes become
// spaces and each word is capitalized ("go-basics" -> "Go Basics").
func SeriesName(slug string) string {
	return seriesNameCaser.String(strings.ReplaceAll(slug, "-", " "))
}

// ReadingTime estimates reading minutes for a text at the given
// words-per-minute rate, rounding up. Empty content reads in zero minutes.
func ReadingTime(content string, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = defaultWordsPerMinute
	}
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

func filterPosts(posts []Post, keep func(Post) bool) []Post {
	var out []Post
	for _, p := range posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
