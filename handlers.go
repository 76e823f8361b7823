package prosa

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rmaia/prosa/markdown"
	"github.com/rmaia/prosa/stats"
)

// handleHome serves the locale's listing page. Query parameters narrow the
// list: ?tag=, ?category= and ?series= filter within the locale.
func (a *App) handleHome(locale Locale) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := a.resolverFor(c)
		posts := r.PostsByLocale(locale)

		tag := c.QueryParam("tag")
		category := c.QueryParam("category")
		series := c.QueryParam("series")
		if tag != "" {
			posts = filterPosts(posts, func(p Post) bool {
				for _, t := range p.Tags {
					if strings.EqualFold(t, tag) {
						return true
					}
				}
				return false
			})
		}
		if category != "" {
			posts = filterPosts(posts, func(p Post) bool {
				return strings.EqualFold(p.Category, category)
			})
		}
		if series != "" {
			posts = filterPosts(posts, func(p Post) bool {
				return p.Series == series
			})
		}

		a.recordVisit(c, locale)

		return Render(c, a.Views.Home(HomeData{
			Config:         a.Config,
			Locale:         locale,
			Posts:          posts,
			Tags:           r.AllTags(locale),
			Categories:     r.AllCategories(locale),
			ActiveTag:      tag,
			ActiveCategory: category,
			ActiveSeries:   series,
			Nav:            a.Config.NavItems("main", locale),
			T:              a.Translator.Bind(locale),
			Preview:        r == a.previewResolver,
		}))
	}
}

// handlePost serves a single post under the locale's URL prefix.
func (a *App) handlePost(locale Locale) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := a.resolverFor(c)
		slug := c.Param("slug")

		post, ok := r.LocalizedPost(slug, locale)
		if !ok {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}

		data := PostData{
			Config: a.Config,
			Locale: locale,
			Post:   post,
			Body:   markdown.Markdown(post.Content),
			Nav:    a.Config.NavItems("main", locale),
			T:      a.Translator.Bind(locale),
		}
		if a.Config.Site.Features.TableOfContents && post.TOC {
			data.Headings = markdown.Headings(post.Content)
		}
		if a.Config.Site.Features.ReadingTime {
			data.ReadingMinutes = ReadingTime(post.Content, a.Config.Site.ReadingTime.WordsPerMinute)
		}
		if t, ok := r.PostTranslation(post); ok {
			data.Translation = &t
		}
		if a.Config.Site.Features.SeriesNavigation {
			data.Series = r.SeriesNavigation(post)
		}
		if a.Config.Site.Features.RelatedPosts {
			data.Related = r.RelatedPosts(post, 3)
		}

		a.recordVisit(c, locale)

		return Render(c, a.Views.Post(data))
	}
}

// recordVisit stores an anonymized page view. Stats failures never affect
// the response.
func (a *App) recordVisit(c echo.Context, locale Locale) {
	if a.statsStore == nil {
		return
	}
	err := a.statsStore.RecordVisit(stats.Visit{
		Path:     c.Request().URL.Path,
		Locale:   string(locale),
		IPHash:   a.statsStore.HashIP(c.RealIP()),
		Referrer: c.Request().Referer(),
	})
	if err != nil {
		c.Logger().Warnf("record visit: %v", err)
	}
}

// handleStatsSummary exposes aggregated visit stats to preview sessions.
func (a *App) handleStatsSummary(c echo.Context) error {
	if !IsPreview(c) {
		return c.NoContent(http.StatusForbidden)
	}
	days := 30
	if d := c.QueryParam("days"); d != "" {
		if _, err := fmt.Sscanf(d, "%d", &days); err != nil || days <= 0 {
			days = 30
		}
	}
	summary, err := a.statsStore.Summary(days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// handleRobots generates robots.txt from site configuration.
func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\nDisallow: /preview/\n")
	for _, p := range a.Resolver.AllPosts() {
		if p.NoIndex {
			fmt.Fprintf(&b, "Disallow: %s\n", a.Config.Locales.LocalizeURL(PostPath(p), p.Locale))
		}
	}
	if a.Config.Site.Features.Sitemap {
		fmt.Fprintf(&b, "\nSitemap: %s\n", a.Config.CanonicalURL("/sitemap.xml"))
	}
	return c.String(http.StatusOK, b.String())
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
