package prosa

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Configuration file names expected inside the config directory.
const (
	siteConfigFile       = "site.config.toml"
	navigationConfigFile = "navigation.config.toml"
	authorConfigFile     = "author.config.toml"
)

const defaultWordsPerMinute = 200

// ConfigNotFoundError reports a missing configuration file. It is fatal: the
// caller should abort.
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("configuration file not found: %s", e.Path)
}

// ConfigParseError reports a malformed configuration file. It is fatal: the
// caller should abort.
type ConfigParseError struct {
	Path string
	Err  error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ConfigParseError) Unwrap() error { return e.Err }

// SiteConfig mirrors site.config.toml.
type SiteConfig struct {
	Site struct {
		Title         string `toml:"title"`
		Description   string `toml:"description"`
		Tagline       string `toml:"tagline"`
		Domain        string `toml:"domain"`
		URL           string `toml:"url"`
		DefaultLocale string `toml:"defaultLocale"`
	} `toml:"site"`
	Locales []struct {
		Code        string `toml:"code"`
		Prefix      string `toml:"prefix"`
		Label       string `toml:"label"`
		Language    string `toml:"language"`
		Description string `toml:"description"`
	} `toml:"locales"`
	SEO struct {
		TitleTemplate      string `toml:"titleTemplate"`
		DefaultTitle       string `toml:"defaultTitle"`
		DefaultDescription string `toml:"defaultDescription"`
		DefaultImage       string `toml:"defaultImage"`
		TwitterHandle      string `toml:"twitterHandle"`
	} `toml:"seo"`
	Theme struct {
		DefaultMode string `toml:"defaultMode"`
		AccentColor string `toml:"accentColor"`
	} `toml:"theme"`
	Features   FeatureFlags `toml:"features"`
	Pagination struct {
		PostsPerPage  int `toml:"postsPerPage"`
		SeriesPerPage int `toml:"seriesPerPage"`
		TagsPerPage   int `toml:"tagsPerPage"`
	} `toml:"pagination"`
	ReadingTime struct {
		WordsPerMinute int `toml:"wordsPerMinute"`
	} `toml:"readingTime"`
}

// FeatureFlags is the fixed set of named boolean feature toggles.
type FeatureFlags struct {
	Search           bool `toml:"search"`
	RSS              bool `toml:"rss"`
	Sitemap          bool `toml:"sitemap"`
	Comments         bool `toml:"comments"`
	TableOfContents  bool `toml:"tableOfContents"`
	ReadingTime      bool `toml:"readingTime"`
	RelatedPosts     bool `toml:"relatedPosts"`
	SeriesNavigation bool `toml:"seriesNavigation"`
}

// NavItem is one configured navigation entry. LabelEn/HrefEn are the
// non-default-locale variants; each falls back to Label/Href independently.
type NavItem struct {
	Label    string `toml:"label"`
	LabelEn  string `toml:"labelEn"`
	Href     string `toml:"href"`
	HrefEn   string `toml:"hrefEn"`
	Icon     string `toml:"icon"`
	External bool   `toml:"external"`
}

// NavigationConfig mirrors navigation.config.toml.
type NavigationConfig struct {
	Main   []NavItem `toml:"main"`
	Footer []NavItem `toml:"footer"`
}

// AuthorSkill groups related skills under a category label.
type AuthorSkill struct {
	Category string   `toml:"category"`
	Items    []string `toml:"items"`
}

// AuthorConfig mirrors author.config.toml.
type AuthorConfig struct {
	Author struct {
		Name     string            `toml:"name"`
		Title    string            `toml:"title"`
		Bio      string            `toml:"bio"`
		BioEn    string            `toml:"bioEn"`
		Avatar   string            `toml:"avatar"`
		Email    string            `toml:"email"`
		Location string            `toml:"location"`
		Social   map[string]string `toml:"social"`
		Skills   []AuthorSkill     `toml:"skills"`
	} `toml:"author"`
}

// Config is the immutable configuration context: the three TOML documents
// plus the locale registry derived from them. It is built once at startup and
// injected wherever configuration is needed; there is no global cache.
type Config struct {
	Site       SiteConfig
	Navigation NavigationConfig
	Author     AuthorConfig
	Locales    *Registry
}

// LoadConfig reads and validates the three configuration documents from dir.
// Any missing or malformed file is a fatal error.
func LoadConfig(dir string) (*Config, error) {
	cfg := &Config{}
	if err := loadTOML(filepath.Join(dir, siteConfigFile), &cfg.Site); err != nil {
		return nil, err
	}
	if err := loadTOML(filepath.Join(dir, navigationConfigFile), &cfg.Navigation); err != nil {
		return nil, err
	}
	if err := loadTOML(filepath.Join(dir, authorConfigFile), &cfg.Author); err != nil {
		return nil, err
	}

	if cfg.Site.ReadingTime.WordsPerMinute <= 0 {
		cfg.Site.ReadingTime.WordsPerMinute = defaultWordsPerMinute
	}
	if cfg.Site.Pagination.PostsPerPage <= 0 {
		cfg.Site.Pagination.PostsPerPage = 10
	}

	infos := make([]LocaleInfo, 0, len(cfg.Site.Locales))
	for _, l := range cfg.Site.Locales {
		infos = append(infos, LocaleInfo{
			Code:        Locale(l.Code),
			Prefix:      l.Prefix,
			Label:       l.Label,
			Language:    l.Language,
			Description: l.Description,
		})
	}
	reg, err := NewRegistry(infos, Locale(cfg.Site.Site.DefaultLocale))
	if err != nil {
		return nil, &ConfigParseError{Path: filepath.Join(dir, siteConfigFile), Err: err}
	}
	cfg.Locales = reg
	return cfg, nil
}

func loadTOML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ConfigNotFoundError{Path: path}
		}
		return &ConfigParseError{Path: path, Err: err}
	}
	if err := toml.Unmarshal(data, v); err != nil {
		return &ConfigParseError{Path: path, Err: err}
	}
	return nil
}

// PageTitle renders a page title through the configured template. An empty
// title yields the default title.
func (c *Config) PageTitle(title string) string {
	if title == "" {
		return c.Site.SEO.DefaultTitle
	}
	return strings.Replace(c.Site.SEO.TitleTemplate, "%s", title, 1)
}

// NavItems resolves the configured navigation entries for a section ("main"
// or "footer") and locale. Label and href fall back to the default-locale
// fields independently; internal hrefs are localized with the locale's URL
// prefix, and the root path resolves to exactly the prefix.
func (c *Config) NavItems(section string, locale Locale) []NavItem {
	var items []NavItem
	switch section {
	case "main":
		items = c.Navigation.Main
	case "footer":
		items = c.Navigation.Footer
	default:
		return nil
	}

	prefix := c.Locales.URLPrefix(locale)
	localized := locale != c.Locales.Default()

	out := make([]NavItem, 0, len(items))
	for _, item := range items {
		resolved := item
		if localized && item.LabelEn != "" {
			resolved.Label = item.LabelEn
		}
		href := item.Href
		if localized && item.HrefEn != "" {
			href = item.HrefEn
		}
		switch {
		case item.External || strings.HasPrefix(href, "http"):
			resolved.Href = href
		case href == "/":
			// The root path resolves to exactly the locale's prefix, which
			// is the empty string for the default locale.
			resolved.Href = prefix
		default:
			resolved.Href = prefix + href
		}
		out = append(out, resolved)
	}
	return out
}

// FeatureEnabled reports whether a named feature flag is on. Unknown names
// are off.
func (c *Config) FeatureEnabled(name string) bool {
	f := c.Site.Features
	switch name {
	case "search":
		return f.Search
	case "rss":
		return f.RSS
	case "sitemap":
		return f.Sitemap
	case "comments":
		return f.Comments
	case "tableOfContents":
		return f.TableOfContents
	case "readingTime":
		return f.ReadingTime
	case "relatedPosts":
		return f.RelatedPosts
	case "seriesNavigation":
		return f.SeriesNavigation
	}
	return false
}

// CanonicalURL joins the configured base URL with a path, normalizing to
// exactly one slash between them.
func (c *Config) CanonicalURL(path string) string {
	base := strings.TrimSuffix(c.Site.Site.URL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// AuthorBio returns the author bio for a locale, falling back to the
// default-locale bio.
func (c *Config) AuthorBio(locale Locale) string {
	if locale != c.Locales.Default() && c.Author.Author.BioEn != "" {
		return c.Author.Author.BioEn
	}
	return c.Author.Author.Bio
}
