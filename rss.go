package prosa

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const feedStylesheet = "/public/rss-styles.xsl"

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title          string    `xml:"title"`
	Link           string    `xml:"link"`
	Description    string    `xml:"description"`
	Language       string    `xml:"language"`
	ManagingEditor string    `xml:"managingEditor,omitempty"`
	WebMaster      string    `xml:"webMaster,omitempty"`
	Copyright      string    `xml:"copyright"`
	Items          []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category"`
	Author      string   `xml:"author,omitempty"`
}

// handleFeed serves the query-selected feed: ?lang=<code> picks the locale,
// anything unrecognized silently resolves to the default locale.
func (a *App) handleFeed(c echo.Context) error {
	locale := a.Config.Locales.Default()
	if lang := Locale(c.QueryParam("lang")); a.Config.Locales.Contains(lang) {
		locale = lang
	}
	return a.renderFeed(c, locale)
}

// handleLocaleFeed serves the fixed-locale feed endpoint.
func (a *App) handleLocaleFeed(locale Locale) echo.HandlerFunc {
	return func(c echo.Context) error {
		return a.renderFeed(c, locale)
	}
}

// renderFeed emits the RSS 2.0 document for one locale: locale-filtered
// posts newest first, channel metadata from site/author config, and a
// stylesheet processing instruction.
func (a *App) renderFeed(c echo.Context, locale Locale) error {
	cfg := a.Config
	info, _ := cfg.Locales.Info(locale)
	author := cfg.Author.Author

	description := info.Description
	if description == "" {
		description = cfg.Site.Site.Description
	}

	var contact string
	if author.Email != "" {
		contact = fmt.Sprintf("%s (%s)", author.Email, author.Name)
	}

	posts := a.Resolver.PostsByLocale(locale)
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := cfg.CanonicalURL(cfg.Locales.LocalizeURL(PostPath(p), locale))
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Description,
			PubDate:     p.PublishedAt.Format(time.RFC1123Z),
			GUID:        link,
			Categories:  append([]string{p.Category}, p.Tags...),
			Author:      author.Name,
		})
	}

	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:          cfg.Site.Site.Title,
			Link:           cfg.CanonicalURL(cfg.Locales.URLPrefix(locale) + "/"),
			Description:    description,
			Language:       info.Language,
			ManagingEditor: contact,
			WebMaster:      contact,
			Copyright:      fmt.Sprintf("Copyright %d %s", time.Now().Year(), author.Name),
			Items:          items,
		},
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	fmt.Fprintf(c.Response(), "<?xml-stylesheet type=\"text/xsl\" href=%q?>\n", feedStylesheet)
	return xml.NewEncoder(c.Response()).Encode(feed)
}
