package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/rmaia/prosa"
)

// envConfig maps the PROSA_* environment variables onto server settings.
type envConfig struct {
	Addr            string `env:"PROSA_ADDR" envDefault:":3000"`
	Env             string `env:"PROSA_ENV"  envDefault:"development"`
	ConfigDir       string `env:"PROSA_CONFIG_DIR"  envDefault:"config"`
	ContentDir      string `env:"PROSA_CONTENT_DIR" envDefault:"content"`
	I18nDir         string `env:"PROSA_I18N_DIR"    envDefault:"i18n"`
	StaticDir       string `env:"PROSA_STATIC_DIR"  envDefault:"public"`
	DataDir         string `env:"PROSA_DATA_DIR"    envDefault:"data"`
	PreviewPassword string `env:"PROSA_PREVIEW_PASSWORD"`
	SessionSecret   string `env:"PROSA_SESSION_SECRET"`
	CookieSecure    bool   `env:"PROSA_COOKIE_SECURE" envDefault:"false"`
	StatsEnabled    bool   `env:"PROSA_STATS_ENABLED" envDefault:"false"`
	StatsRetention  int    `env:"PROSA_STATS_RETENTION_DAYS" envDefault:"365"`
}

// runServe starts the engine with the default views. Sites that customize
// templates build their own binary against the library instead.
func runServe() error {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	cfg, err := prosa.LoadConfig(ec.ConfigDir)
	if err != nil {
		return err
	}

	app := prosa.New(cfg, prosa.Settings{
		Addr:               ec.Addr,
		Env:                ec.Env,
		ConfigDir:          ec.ConfigDir,
		ContentDir:         ec.ContentDir,
		I18nDir:            ec.I18nDir,
		StaticDir:          ec.StaticDir,
		DataDir:            ec.DataDir,
		PreviewPassword:    ec.PreviewPassword,
		SessionSecret:      ec.SessionSecret,
		CookieSecure:       ec.CookieSecure,
		StatsEnabled:       ec.StatsEnabled,
		StatsRetentionDays: ec.StatsRetention,
	}, prosa.ViewFuncs{})
	defer app.Close()

	return app.Start()
}

// runCovers converts every image under src into a web-ready JPEG under dst.
func runCovers(src, dst string) error {
	images, err := prosa.ProcessCoverDir(src, dst)
	for _, img := range images {
		fmt.Printf("  %s (%dx%d, %d bytes)\n", img.Filename, img.Width, img.Height, img.Size)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Processed %d cover(s) into %s\n", len(images), dst)
	return nil
}
