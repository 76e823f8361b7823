// Package prosa is a bilingual markdown blog engine built with Go, Echo and
// templ. Content lives in markdown files with YAML frontmatter, site
// configuration in TOML documents, and every cross-post view (locales,
// categories, tags, series, translations, related posts) is derived at
// request time from the immutable post list loaded at startup.
package prosa

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rmaia/prosa/stats"
)

// Settings holds runtime configuration that comes from the process
// environment rather than the TOML documents: addresses, directories and
// secrets.
type Settings struct {
	Addr string // listen address (default ":3000")
	Env  string // "development" or "production" (default "development")

	ConfigDir  string // TOML documents (default "config")
	ContentDir string // markdown content (default "content")
	I18nDir    string // translation dictionaries (default "i18n")
	StaticDir  string // user static assets (default "public")
	DataDir    string // writable data, e.g. the stats database (default "data")

	PreviewPassword string // enables the draft preview login when set
	SessionSecret   string // required when preview is enabled
	CookieSecure    bool   // set true behind HTTPS

	StatsEnabled       bool
	StatsRetentionDays int // visits older than this are purged (default 365)
}

func (s *Settings) setDefaults() {
	if s.Addr == "" {
		s.Addr = ":3000"
	}
	if s.Env == "" {
		s.Env = "development"
	}
	if s.ConfigDir == "" {
		s.ConfigDir = "config"
	}
	if s.ContentDir == "" {
		s.ContentDir = "content"
	}
	if s.I18nDir == "" {
		s.I18nDir = "i18n"
	}
	if s.StaticDir == "" {
		s.StaticDir = "public"
	}
	if s.DataDir == "" {
		s.DataDir = "data"
	}
	if s.StatsRetentionDays == 0 {
		s.StatsRetentionDays = 365
	}
}

// Production reports whether draft posts should be hidden.
func (s Settings) Production() bool {
	return s.Env == "production"
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir overrides the directory for user-owned static assets.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// App is the central application. It wires together configuration, content,
// the resolver, translations, handlers, middleware and user-provided
// templates.
type App struct {
	Config     *Config
	Settings   Settings
	Echo       *echo.Echo
	Posts      []Post
	Resolver   *Resolver
	Translator *Translator
	Views      ViewFuncs

	previewResolver *Resolver
	loginLimiter    *LoginLimiter
	statsStore      *stats.Store
	customRoutes    []func(*App)
	staticDir       string
}

// New creates an App from an already-loaded configuration context. Content
// and translations are loaded in Start.
func New(cfg *Config, settings Settings, views ViewFuncs, opts ...Option) *App {
	settings.setDefaults()
	views.fillDefaults()

	a := &App{
		Config:    cfg,
		Settings:  settings,
		Echo:      echo.New(),
		Views:     views,
		staticDir: settings.StaticDir,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start loads content and translations, initializes middleware, routes and
// the stats store, and runs the server until shutdown.
func (a *App) Start() error {
	if a.Settings.PreviewPassword != "" && a.Settings.SessionSecret == "" {
		return fmt.Errorf("prosa: SessionSecret is required when PreviewPassword is set")
	}

	posts, err := LoadPosts(a.Settings.ContentDir, a.Config.Locales)
	if err != nil {
		return fmt.Errorf("prosa: load content: %w", err)
	}
	a.Posts = posts
	a.Resolver = NewResolver(posts, a.Settings.Production())
	a.previewResolver = NewResolver(posts, false)

	a.Translator, err = LoadTranslations(a.Settings.I18nDir, a.Config.Locales)
	if err != nil {
		return fmt.Errorf("prosa: load translations: %w", err)
	}

	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	if a.Settings.StatsEnabled {
		store, err := stats.NewStore(filepath.Join(a.Settings.DataDir, "stats.db"))
		if err != nil {
			return fmt.Errorf("prosa: init stats: %w", err)
		}
		a.statsStore = store
		if err := store.EnsureSalt(); err != nil {
			return fmt.Errorf("prosa: init stats salt: %w", err)
		}
		stopCleanup := store.StartCleanupScheduler(a.Settings.StatsRetentionDays, 24*time.Hour)
		defer stopCleanup()
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Settings.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	if a.Config.Site.Features.Sitemap {
		e.GET("/sitemap.xml", a.handleSitemap)
	}
	if a.Config.Site.Features.RSS {
		e.GET("/rss.xml", a.handleFeed)
		for _, li := range a.Config.Locales.Locales() {
			e.GET(fmt.Sprintf("/rss-%s.xml", li.Code), a.handleLocaleFeed(li.Code))
		}
	}

	// One home and one post route per locale, under its URL prefix. Echo
	// prefers static segments, so non-default prefixes win over the default
	// locale's parameterized routes.
	for _, li := range a.Config.Locales.Locales() {
		prefix := li.Prefix
		e.GET(prefix+"/", a.handleHome(li.Code))
		e.GET(prefix+"/:slug/", a.handlePost(li.Code))
	}

	if a.Settings.PreviewPassword != "" {
		e.GET("/preview/", a.handlePreview)
		e.POST("/preview/login/", a.handlePreviewLogin)
		e.POST("/preview/logout/", handlePreviewLogout)
	}

	if a.statsStore != nil {
		e.GET("/api/stats/summary", a.handleStatsSummary)
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.statsStore != nil {
		return a.statsStore.Close()
	}
	return nil
}
