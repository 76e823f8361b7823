package prosa

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) handleSitemap(c echo.Context) error {
	cfg := a.Config

	var urls []sitemapURL
	for _, li := range cfg.Locales.Locales() {
		home := li.Prefix
		if home == "" {
			home = "/"
		}
		urls = append(urls, sitemapURL{Loc: cfg.CanonicalURL(home)})
	}
	for _, p := range a.Resolver.AllPosts() {
		if p.NoIndex {
			continue
		}
		lastMod := p.PublishedAt
		if !p.UpdatedAt.IsZero() {
			lastMod = p.UpdatedAt
		}
		urls = append(urls, sitemapURL{
			Loc:     cfg.CanonicalURL(cfg.Locales.LocalizeURL(PostPath(p), p.Locale)),
			LastMod: lastMod.Format("2006-01-02"),
		})
	}

	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
