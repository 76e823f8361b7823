package prosa

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/labstack/gommon/log"
)

// Translator resolves UI strings from per-locale dictionaries. A key missing
// in the requested locale falls back to the default locale; a key missing
// everywhere is returned verbatim with a logged warning, never a failure.
type Translator struct {
	dicts map[Locale]map[string]any
	def   Locale
}

// LoadTranslations reads one <code>.json dictionary per supported locale
// from dir. Every locale must have a dictionary; key-set mismatches between
// dictionaries are surfaced as warnings, not errors.
func LoadTranslations(dir string, reg *Registry) (*Translator, error) {
	dicts := make(map[Locale]map[string]any, len(reg.Locales()))
	for _, li := range reg.Locales() {
		path := filepath.Join(dir, string(li.Code)+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load translations for %q: %w", li.Code, err)
		}
		var dict map[string]any
		if err := json.Unmarshal(data, &dict); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		dicts[li.Code] = dict
	}
	t := &Translator{dicts: dicts, def: reg.Default()}
	t.warnKeyMismatches()
	return t, nil
}

// T looks up a dot-separated key for a locale.
func (t *Translator) T(locale Locale, key string) string {
	return t.Tf(locale, key, nil)
}

// Tf looks up a key and interpolates {name} placeholders from params.
// Placeholders without a matching parameter stay verbatim.
func (t *Translator) Tf(locale Locale, key string, params map[string]string) string {
	s, ok := nestedString(t.dicts[locale], key)
	if !ok {
		s, ok = nestedString(t.dicts[t.def], key)
		if !ok {
			log.Warnf("translation key not found: %s", key)
			return key
		}
	}
	return interpolate(s, params)
}

// Bind returns a lookup function fixed to one locale, convenient for views.
func (t *Translator) Bind(locale Locale) func(string) string {
	return func(key string) string { return t.T(locale, key) }
}

// warnKeyMismatches compares every dictionary's key set against the default
// locale's and logs the differences in both directions.
func (t *Translator) warnKeyMismatches() {
	defKeys := keyPaths(t.dicts[t.def], "")
	for locale, dict := range t.dicts {
		if locale == t.def {
			continue
		}
		keys := keyPaths(dict, "")
		for _, missing := range missingFrom(defKeys, keys) {
			log.Warnf("translation dictionary %q is missing key %s", locale, missing)
		}
		for _, extra := range missingFrom(keys, defKeys) {
			log.Warnf("translation dictionary %q has key %s absent from %q", locale, extra, t.def)
		}
	}
}

func nestedString(dict map[string]any, key string) (string, bool) {
	var current any = dict
	start := 0
	for start <= len(key) {
		end := start
		for end < len(key) && key[end] != '.' {
			end++
		}
		m, ok := current.(map[string]any)
		if !ok {
			return "", false
		}
		current, ok = m[key[start:end]]
		if !ok {
			return "", false
		}
		start = end + 1
	}
	s, ok := current.(string)
	return s, ok
}

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

func interpolate(s string, params map[string]string) string {
	if len(params) == 0 {
		return s
	}
	return placeholderRe.ReplaceAllStringFunc(s, func(m string) string {
		name := m[1 : len(m)-1]
		if v, ok := params[name]; ok {
			return v
		}
		return m
	})
}

func keyPaths(dict map[string]any, prefix string) []string {
	var paths []string
	for k, v := range dict {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			paths = append(paths, keyPaths(sub, full)...)
		} else {
			paths = append(paths, full)
		}
	}
	sort.Strings(paths)
	return paths
}

// missingFrom returns the entries of want not present in have.
func missingFrom(want, have []string) []string {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	var out []string
	for _, w := range want {
		if _, ok := set[w]; !ok {
			out = append(out, w)
		}
	}
	return out
}
