// Package stats provides privacy-first page view statistics.
package stats

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Visit represents a single page view.
type Visit struct {
	ID        int64     `json:"-"`
	Path      string    `json:"path"`
	Locale    string    `json:"locale"`
	IPHash    string    `json:"-"` // Salted IP hash, never the raw address
	Referrer  string    `json:"referrer"`
	Timestamp time.Time `json:"timestamp"`
}

// Summary holds aggregated visit data for a time period.
type Summary struct {
	Period         string       `json:"period"`
	TotalViews     int          `json:"total_views"`
	UniqueVisitors int          `json:"unique_visitors"`
	TopPages       []PageStat   `json:"top_pages"`
	LocaleViews    []LocaleStat `json:"locales"`
	DailyViews     []DailyView  `json:"daily_views"`
}

// PageStat represents page view statistics.
type PageStat struct {
	Path  string `json:"path"`
	Views int    `json:"views"`
}

// LocaleStat represents views per locale.
type LocaleStat struct {
	Locale string `json:"locale"`
	Views  int    `json:"views"`
}

// DailyView represents views per day.
type DailyView struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
}

// EnsureSalt loads the persistent salt for IP hashing, generating and storing
// one on first run. Must be called once at startup before HashIP is used.
func (s *Store) EnsureSalt() error {
	v, err := s.GetSetting("hash_salt")
	if err != nil {
		return fmt.Errorf("read hash salt: %w", err)
	}
	if v == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return fmt.Errorf("generate salt: %w", err)
		}
		v = hex.EncodeToString(b)
		if err := s.SetSetting("hash_salt", v); err != nil {
			return fmt.Errorf("store hash salt: %w", err)
		}
	}
	s.salt = v
	return nil
}

// HashIP creates a salted SHA-256 hash of an IP address.
func (s *Store) HashIP(ip string) string {
	h := sha256.New()
	h.Write([]byte(s.salt + ip))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
