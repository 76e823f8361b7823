package prosa

import (
	"fmt"
	"strings"
)

// Locale identifies one of the site's supported languages, e.g. "pt" or "en".
type Locale string

// LocaleInfo describes a supported locale. Prefix is the URL prefix posts and
// pages of that locale live under; the default locale usually has an empty
// prefix so it owns the site root.
type LocaleInfo struct {
	Code        Locale
	Prefix      string // "" or "/en"
	Label       string // "Português", "English"
	Language    string // BCP-47 code for feeds, e.g. "pt-BR"
	Description string // optional per-locale site description
}

// Registry holds the closed set of supported locales. It is built once from
// site configuration and read-only afterwards.
type Registry struct {
	locales []LocaleInfo
	def     Locale
}

// NewRegistry validates the locale set and returns a Registry. The default
// locale must be part of the set and codes must be unique.
func NewRegistry(locales []LocaleInfo, def Locale) (*Registry, error) {
	if len(locales) == 0 {
		return nil, fmt.Errorf("locale registry: at least one locale is required")
	}
	seen := make(map[Locale]struct{}, len(locales))
	for _, li := range locales {
		if li.Code == "" {
			return nil, fmt.Errorf("locale registry: empty locale code")
		}
		if _, dup := seen[li.Code]; dup {
			return nil, fmt.Errorf("locale registry: duplicate locale %q", li.Code)
		}
		seen[li.Code] = struct{}{}
	}
	if _, ok := seen[def]; !ok {
		return nil, fmt.Errorf("locale registry: default locale %q is not in the supported set", def)
	}
	return &Registry{locales: locales, def: def}, nil
}

// Default returns the default locale.
func (r *Registry) Default() Locale {
	return r.def
}

// Locales returns the supported locales in configuration order.
func (r *Registry) Locales() []LocaleInfo {
	return r.locales
}

// Info returns the LocaleInfo for a code.
func (r *Registry) Info(code Locale) (LocaleInfo, bool) {
	for _, li := range r.locales {
		if li.Code == code {
			return li, true
		}
	}
	return LocaleInfo{}, false
}

// Contains reports whether code is a supported locale.
func (r *Registry) Contains(code Locale) bool {
	_, ok := r.Info(code)
	return ok
}

// URLPrefix returns the configured URL prefix for a locale. Unknown locales
// resolve to the default locale's prefix.
func (r *Registry) URLPrefix(code Locale) string {
	if li, ok := r.Info(code); ok {
		return li.Prefix
	}
	li, _ := r.Info(r.def)
	return li.Prefix
}

// FromPath resolves the locale a URL path belongs to. A path matches a locale
// when it starts with the locale's URL prefix or with "/<code>"; the longest
// match wins so overlapping prefixes resolve to the most specific locale.
// Paths matching nothing belong to the default locale.
func (r *Registry) FromPath(path string) Locale {
	best := r.def
	bestLen := 0
	for _, li := range r.locales {
		for _, p := range []string{li.Prefix, "/" + string(li.Code)} {
			if p == "" || p == "/" {
				continue
			}
			if (path == p || strings.HasPrefix(path, p+"/")) && len(p) > bestLen {
				best = li.Code
				bestLen = len(p)
			}
		}
	}
	return best
}

// LocalizeURL prepends the locale's URL prefix to an absolute path. Passing a
// path that already carries a locale prefix double-prefixes it; detecting
// that is the caller's responsibility.
func (r *Registry) LocalizeURL(path string, code Locale) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return r.URLPrefix(code) + path
}
