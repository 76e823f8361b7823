package prosa

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/rmaia/prosa/markdown"
)

// HomeData is everything the home/listing view needs.
type HomeData struct {
	Config         *Config
	Locale         Locale
	Posts          []Post
	Tags           []string
	Categories     []string
	ActiveTag      string
	ActiveCategory string
	ActiveSeries   string
	Nav            []NavItem
	T              func(string) string
	Preview        bool
}

// PostData is everything the single-post view needs.
type PostData struct {
	Config         *Config
	Locale         Locale
	Post           Post
	Body           templ.Component
	Headings       []markdown.Heading
	Translation    *Post
	Series         SeriesNavigation
	Related        []Post
	ReadingMinutes int
	Nav            []NavItem
	T              func(string) string
}

// ViewFuncs holds the templ components the engine calls when rendering
// pages. Users own and customize all templates; any nil field falls back to
// the built-in default view.
type ViewFuncs struct {
	Home         func(data HomeData) templ.Component
	Post         func(data PostData) templ.Component
	PreviewLogin func(showError bool, csrfToken string) templ.Component
	NotFound     func() templ.Component
	ServerError  func() templ.Component
}

func (v *ViewFuncs) fillDefaults() {
	def := DefaultViews()
	if v.Home == nil {
		v.Home = def.Home
	}
	if v.Post == nil {
		v.Post = def.Post
	}
	if v.PreviewLogin == nil {
		v.PreviewLogin = def.PreviewLogin
	}
	if v.NotFound == nil {
		v.NotFound = def.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = def.ServerError
	}
}

// DefaultViews returns plain built-in templates. They are intentionally
// minimal; real sites replace them via ViewFuncs.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:         defaultHome,
		Post:         defaultPost,
		PreviewLogin: defaultPreviewLogin,
		NotFound:     defaultNotFound,
		ServerError:  defaultServerError,
	}
}

func component(fn func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return fn(w)
	})
}

func pageHead(w io.Writer, cfg *Config, title string) {
	fmt.Fprintf(w, "<!doctype html><html><head><meta charset=\"utf-8\"><title>%s</title></head><body>", html.EscapeString(cfg.PageTitle(title)))
}

func defaultHome(data HomeData) templ.Component {
	return component(func(w io.Writer) error {
		pageHead(w, data.Config, "")
		fmt.Fprintf(w, "<header><h1>%s</h1><nav>", html.EscapeString(data.Config.Site.Site.Title))
		for _, item := range data.Nav {
			fmt.Fprintf(w, "<a href=%q>%s</a> ", item.Href, html.EscapeString(item.Label))
		}
		io.WriteString(w, "</nav></header><main><ul>")
		for _, p := range data.Posts {
			href := data.Config.Locales.LocalizeURL(PostPath(p), data.Locale)
			fmt.Fprintf(w, "<li><a href=%q>%s</a> <time>%s</time></li>",
				href, html.EscapeString(p.Title), p.PublishedAt.Format("2006-01-02"))
		}
		io.WriteString(w, "</ul><aside>")
		for _, t := range data.Tags {
			fmt.Fprintf(w, "<a href=\"?tag=%s\">%s</a> ", html.EscapeString(t), html.EscapeString(t))
		}
		_, err := io.WriteString(w, "</aside></main></body></html>")
		return err
	})
}

func defaultPost(data PostData) templ.Component {
	return component(func(w io.Writer) error {
		pageHead(w, data.Config, data.Post.Title)
		fmt.Fprintf(w, "<article><h1>%s</h1>", html.EscapeString(data.Post.Title))
		if data.ReadingMinutes > 0 {
			fmt.Fprintf(w, "<p>%d min</p>", data.ReadingMinutes)
		}
		if data.Translation != nil {
			href := data.Config.Locales.LocalizeURL(PostPath(*data.Translation), data.Translation.Locale)
			fmt.Fprintf(w, "<p><a href=%q>%s</a></p>", href, html.EscapeString(data.Translation.Title))
		}
		if err := data.Body.Render(context.Background(), w); err != nil {
			return err
		}
		if data.Series.Total > 0 {
			fmt.Fprintf(w, "<nav><p>%s (%d/%d)</p>", html.EscapeString(data.Series.SeriesName), data.Series.Current, data.Series.Total)
			if data.Series.Previous != nil {
				fmt.Fprintf(w, "<a href=%q>&larr; %s</a> ",
					data.Config.Locales.LocalizeURL(PostPath(*data.Series.Previous), data.Locale),
					html.EscapeString(data.Series.Previous.Title))
			}
			if data.Series.Next != nil {
				fmt.Fprintf(w, "<a href=%q>%s &rarr;</a>",
					data.Config.Locales.LocalizeURL(PostPath(*data.Series.Next), data.Locale),
					html.EscapeString(data.Series.Next.Title))
			}
			io.WriteString(w, "</nav>")
		}
		if len(data.Related) > 0 {
			io.WriteString(w, "<section><ul>")
			for _, p := range data.Related {
				fmt.Fprintf(w, "<li><a href=%q>%s</a></li>",
					data.Config.Locales.LocalizeURL(PostPath(p), data.Locale),
					html.EscapeString(p.Title))
			}
			io.WriteString(w, "</ul></section>")
		}
		_, err := io.WriteString(w, "</article></body></html>")
		return err
	})
}

func defaultPreviewLogin(showError bool, csrfToken string) templ.Component {
	return component(func(w io.Writer) error {
		io.WriteString(w, "<!doctype html><html><body><form method=\"post\" action=\"/preview/login/\">")
		if showError {
			io.WriteString(w, "<p>Wrong password.</p>")
		}
		fmt.Fprintf(w, "<input type=\"hidden\" name=\"_csrf\" value=%q>", csrfToken)
		_, err := io.WriteString(w, "<input type=\"password\" name=\"password\"><button>Login</button></form></body></html>")
		return err
	})
}

func defaultNotFound() templ.Component {
	return component(func(w io.Writer) error {
		_, err := io.WriteString(w, "<!doctype html><html><body><h1>404</h1></body></html>")
		return err
	})
}

func defaultServerError() templ.Component {
	return component(func(w io.Writer) error {
		_, err := io.WriteString(w, "<!doctype html><html><body><h1>500</h1></body></html>")
		return err
	})
}
