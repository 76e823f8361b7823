package prosa

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Content files live under <dir>/<locale>/<slug>.md. The file name (minus
// extension) is the post's slug; together with the locale directory it forms
// the post identity "<locale>/<slug>".

var frontMatterDelim = []byte("---")

// LoadPosts walks the content directory and parses every markdown file into a
// Post. Posts come back in a deterministic provider order: locales in
// registry order, files alphabetically within each locale. A file that fails
// schema validation aborts the load with an error naming it.
func LoadPosts(dir string, reg *Registry) ([]Post, error) {
	var posts []Post
	for _, li := range reg.Locales() {
		localeDir := filepath.Join(dir, string(li.Code))
		entries, err := os.ReadDir(localeDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read content dir %s: %w", localeDir, err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := filepath.Ext(e.Name())
			if ext != ".md" && ext != ".mdx" {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)
		for _, name := range names {
			path := filepath.Join(localeDir, name)
			slug := strings.TrimSuffix(name, filepath.Ext(name))
			post, err := parsePostFile(path, li.Code, slug)
			if err != nil {
				return nil, err
			}
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func parsePostFile(path string, locale Locale, slug string) (Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Post{}, fmt.Errorf("read %s: %w", path, err)
	}
	head, body, err := splitFrontMatter(data)
	if err != nil {
		return Post{}, fmt.Errorf("%s: %w", path, err)
	}
	var fm frontMatter
	if err := yaml.Unmarshal(head, &fm); err != nil {
		return Post{}, fmt.Errorf("%s: parse frontmatter: %w", path, err)
	}
	post, err := fm.toPost(locale, slug, string(body))
	if err != nil {
		return Post{}, fmt.Errorf("%s: %w", path, err)
	}
	return post, nil
}

// splitFrontMatter separates the leading "---" delimited YAML block from the
// markdown body.
func splitFrontMatter(data []byte) (head, body []byte, err error) {
	trimmed := bytes.TrimLeft(data, "\xef\xbb\xbf\n\r")
	if !bytes.HasPrefix(trimmed, frontMatterDelim) {
		return nil, nil, fmt.Errorf("missing frontmatter block")
	}
	rest := trimmed[len(frontMatterDelim):]
	rest = bytes.TrimPrefix(rest, []byte("\r"))
	if !bytes.HasPrefix(rest, []byte("\n")) {
		return nil, nil, fmt.Errorf("missing frontmatter block")
	}
	rest = rest[1:]
	end := bytes.Index(rest, append([]byte("\n"), frontMatterDelim...))
	if end < 0 {
		return nil, nil, fmt.Errorf("unterminated frontmatter block")
	}
	head = rest[:end]
	body = rest[end+1+len(frontMatterDelim):]
	body = bytes.TrimPrefix(body, []byte("\r"))
	body = bytes.TrimPrefix(body, []byte("\n"))
	return head, body, nil
}

func (fm frontMatter) toPost(locale Locale, slug, body string) (Post, error) {
	if strings.TrimSpace(fm.Title) == "" {
		return Post{}, fmt.Errorf("title is required")
	}
	if fm.Description == "" {
		return Post{}, fmt.Errorf("description is required")
	}
	if utf8.RuneCountInString(fm.Description) > 300 {
		return Post{}, fmt.Errorf("description exceeds 300 characters")
	}
	if len(FilterEmpty(fm.Tags)) == 0 {
		return Post{}, fmt.Errorf("at least one tag is required")
	}
	if fm.Locale == "" {
		return Post{}, fmt.Errorf("locale is required")
	}
	if Locale(fm.Locale) != locale {
		return Post{}, fmt.Errorf("frontmatter locale %q does not match content directory %q", fm.Locale, locale)
	}
	if fm.SeriesOrder < 0 {
		return Post{}, fmt.Errorf("seriesOrder must be positive")
	}
	publishedAt, err := parseContentDate(fm.PublishedAt)
	if err != nil {
		return Post{}, fmt.Errorf("publishedAt: %w", err)
	}
	var updatedAt time.Time
	if fm.UpdatedAt != "" {
		updatedAt, err = parseContentDate(fm.UpdatedAt)
		if err != nil {
			return Post{}, fmt.Errorf("updatedAt: %w", err)
		}
	}

	// Display flags default to on.
	toc, comments := true, true
	if fm.TOC != nil {
		toc = *fm.TOC
	}
	if fm.Comments != nil {
		comments = *fm.Comments
	}

	return Post{
		ID:              string(locale) + "/" + slug,
		Title:           fm.Title,
		Description:     fm.Description,
		PublishedAt:     publishedAt,
		UpdatedAt:       updatedAt,
		Locale:          locale,
		Category:        fm.Category,
		Tags:            FilterEmpty(fm.Tags),
		Draft:           fm.Draft,
		Series:          fm.Series,
		SeriesOrder:     fm.SeriesOrder,
		CanonicalURL:    fm.CanonicalURL,
		OGImage:         fm.OGImage,
		NoIndex:         fm.NoIndex,
		TOC:             toc,
		Comments:        comments,
		CoverImage:      fm.CoverImage,
		CoverImageAlt:   fm.CoverImageAlt,
		Author:          fm.Author,
		TranslationSlug: fm.TranslationSlug,
		Content:         body,
	}, nil
}

// parseContentDate accepts the date formats content files use: a bare date or
// a full RFC 3339 timestamp.
func parseContentDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or RFC 3339)", s)
	}
	return t, nil
}
