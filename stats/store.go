package stats

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// sqliteTimeLayout is the text form timestamps are stored in. SQLite's date
// functions (DATE, etc.) parse it, and it compares correctly as a string.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// Store provides database operations for visit statistics.
type Store struct {
	db   *sql.DB
	salt string
}

// NewStore opens (creating if needed) the stats database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open stats db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ensureSchema creates the necessary tables if they don't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS visits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL,
			locale TEXT NOT NULL,
			ip_hash TEXT NOT NULL,
			referrer TEXT,
			timestamp DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_visits_timestamp ON visits(timestamp);
		CREATE INDEX IF NOT EXISTS idx_visits_path ON visits(path);
		CREATE INDEX IF NOT EXISTS idx_visits_locale ON visits(locale);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// GetSetting retrieves a setting value by key. Returns empty string if not found.
func (s *Store) GetSetting(key string) (string, error) {
	var val string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&val)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return val, err
}

// SetSetting stores a setting value by key (upsert).
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// RecordVisit stores a new visit. A zero timestamp defaults to now.
func (s *Store) RecordVisit(v Visit) error {
	ts := v.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO visits (path, locale, ip_hash, referrer, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, v.Path, v.Locale, v.IPHash, v.Referrer, ts.UTC().Format(sqliteTimeLayout))
	return err
}

// Summary returns aggregated statistics for the last n days.
func (s *Store) Summary(days int) (*Summary, error) {
	toTime := time.Now().UTC()
	fromTime := toTime.AddDate(0, 0, -days)
	to := toTime.Format(sqliteTimeLayout)
	from := fromTime.Format(sqliteTimeLayout)

	sum := &Summary{
		Period:      fromTime.Format("2006-01-02") + " to " + toTime.Format("2006-01-02"),
		TopPages:    []PageStat{},
		LocaleViews: []LocaleStat{},
		DailyViews:  []DailyView{},
	}

	err := s.db.QueryRow(`
		SELECT COUNT(*), COUNT(DISTINCT ip_hash) FROM visits
		WHERE timestamp >= ? AND timestamp <= ?
	`, from, to).Scan(&sum.TotalViews, &sum.UniqueVisitors)
	if err != nil {
		return nil, fmt.Errorf("count views: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT path, COUNT(*) AS views FROM visits
		WHERE timestamp >= ? AND timestamp <= ?
		GROUP BY path ORDER BY views DESC LIMIT 10
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("top pages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p PageStat
		if err := rows.Scan(&p.Path, &p.Views); err != nil {
			return nil, err
		}
		sum.TopPages = append(sum.TopPages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	localeRows, err := s.db.Query(`
		SELECT locale, COUNT(*) AS views FROM visits
		WHERE timestamp >= ? AND timestamp <= ?
		GROUP BY locale ORDER BY views DESC
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("locale views: %w", err)
	}
	defer localeRows.Close()
	for localeRows.Next() {
		var l LocaleStat
		if err := localeRows.Scan(&l.Locale, &l.Views); err != nil {
			return nil, err
		}
		sum.LocaleViews = append(sum.LocaleViews, l)
	}
	if err := localeRows.Err(); err != nil {
		return nil, err
	}

	dailyRows, err := s.db.Query(`
		SELECT DATE(timestamp) AS day, COUNT(*) AS views FROM visits
		WHERE timestamp >= ? AND timestamp <= ?
		GROUP BY day ORDER BY day
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily views: %w", err)
	}
	defer dailyRows.Close()
	for dailyRows.Next() {
		var d DailyView
		if err := dailyRows.Scan(&d.Date, &d.Views); err != nil {
			return nil, err
		}
		sum.DailyViews = append(sum.DailyViews, d)
	}
	if err := dailyRows.Err(); err != nil {
		return nil, err
	}

	return sum, nil
}

// DeleteOlderThan removes visits older than the retention period.
func (s *Store) DeleteOlderThan(retentionDays int) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Format(sqliteTimeLayout)
	if _, err := s.db.Exec(`DELETE FROM visits WHERE timestamp < ?`, cutoff); err != nil {
		return fmt.Errorf("cleanup visits: %w", err)
	}
	return nil
}

// StartCleanupScheduler runs periodic cleanup of old data. Returns a stop function.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := s.DeleteOlderThan(retentionDays); err != nil {
					fmt.Printf("stats cleanup error: %v\n", err)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}
