package prosa

import "time"

// Post is one content record, the unit of publication. Its identity is
// "<locale>/<slug>"; the slug is unique within a locale, and a translation
// pair shares content across locales via TranslationSlug (the slugs
// themselves may differ between translations).
type Post struct {
	ID          string // "en/my-post"
	Title       string
	Description string
	PublishedAt time.Time
	UpdatedAt   time.Time // zero when never updated
	Locale      Locale
	Category    string
	Tags        []string
	Draft       bool

	// Series membership. SeriesOrder is meaningful only when Series is set;
	// zero means "unordered", which sorts first.
	Series      string
	SeriesOrder int

	CanonicalURL string
	OGImage      string
	NoIndex      bool
	TOC          bool
	Comments     bool

	CoverImage    string
	CoverImageAlt string

	Author          string // override; empty means the configured author
	TranslationSlug string // slug of the sibling post in another locale

	Content string // raw markdown body
}

// frontMatter mirrors the YAML header of a content file. Field names follow
// the frontmatter keys the content files use.
type frontMatter struct {
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	PublishedAt     string   `yaml:"publishedAt"`
	UpdatedAt       string   `yaml:"updatedAt"`
	Locale          string   `yaml:"locale"`
	Category        string   `yaml:"category"`
	Tags            []string `yaml:"tags"`
	Draft           bool     `yaml:"draft"`
	Series          string   `yaml:"series"`
	SeriesOrder     int      `yaml:"seriesOrder"`
	CanonicalURL    string   `yaml:"canonicalUrl"`
	OGImage         string   `yaml:"ogImage"`
	NoIndex         bool     `yaml:"noIndex"`
	TOC             *bool    `yaml:"toc"`
	Comments        *bool    `yaml:"comments"`
	CoverImage      string   `yaml:"coverImage"`
	CoverImageAlt   string   `yaml:"coverImageAlt"`
	Author          string   `yaml:"author"`
	TranslationSlug string   `yaml:"translationSlug"`
}

// Image holds metadata about a processed cover image.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	ProcessedAt  string
}
