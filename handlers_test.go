package prosa

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app := New(loadTestConfig(t), Settings{Env: "production"}, ViewFuncs{})
	app.Resolver = NewResolver(testPosts(), true)
	app.previewResolver = NewResolver(testPosts(), false)

	tr, err := LoadTranslations(filepath.Join("testdata", "i18n"), app.Config.Locales)
	if err != nil {
		t.Fatalf("LoadTranslations failed: %v", err)
	}
	app.Translator = tr
	return app
}

func doRequest(t *testing.T, target string, handler echo.HandlerFunc, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	if err := handler(c); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	return rec
}

func TestHandleHome(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(t, "/", app.handleHome("pt"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Go Básico 1") {
		t.Error("home missing post listing")
	}
	if strings.Contains(body, "Rascunho") {
		t.Error("home lists a draft in production")
	}
}

func TestHandleHomeTagFilter(t *testing.T) {
	app := newTestApp(t)

	body := doRequest(t, "/?tag=cafe", app.handleHome("pt")).Body.String()
	if !strings.Contains(body, "Café") {
		t.Error("filtered home missing the tagged post")
	}
	if strings.Contains(body, "Go Básico 1") {
		t.Error("filtered home shows posts without the tag")
	}
}

func TestHandlePost(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(t, "/go-basico-2/", app.handlePost("pt"), "slug", "go-basico-2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Go Básico 2") {
		t.Error("post page missing title")
	}
	// Series navigation around the middle post.
	if !strings.Contains(body, "Go Básico 1") || !strings.Contains(body, "Go Básico 3") {
		t.Error("post page missing series neighbors")
	}
}

func TestHandlePostNotFound(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(t, "/missing/", app.handlePost("pt"), "slug", "missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlePostTranslationLink(t *testing.T) {
	app := newTestApp(t)

	body := doRequest(t, "/go-basico-1/", app.handlePost("pt"), "slug", "go-basico-1").Body.String()
	if !strings.Contains(body, "/en/go-basics-1") {
		t.Error("post page missing translation link")
	}
}

func TestHandleRobots(t *testing.T) {
	app := newTestApp(t)

	body := doRequest(t, "/robots.txt", app.handleRobots).Body.String()
	if !strings.Contains(body, "User-agent: *") {
		t.Errorf("robots.txt = %q", body)
	}
	if !strings.Contains(body, "Disallow: /preview/") {
		t.Error("robots.txt should disallow the preview area")
	}
	if !strings.Contains(body, "Sitemap: https://example.com/sitemap.xml") {
		t.Error("robots.txt missing sitemap line")
	}
}

func TestSettingsDefaults(t *testing.T) {
	var s Settings
	s.setDefaults()

	if s.Addr != ":3000" || s.Env != "development" {
		t.Errorf("defaults = %+v", s)
	}
	if s.ContentDir != "content" || s.ConfigDir != "config" || s.I18nDir != "i18n" {
		t.Errorf("dir defaults = %+v", s)
	}
	if s.Production() {
		t.Error("development settings report production")
	}
	s.Env = "production"
	if !s.Production() {
		t.Error("production settings not detected")
	}
}

func TestStartRequiresSessionSecretForPreview(t *testing.T) {
	app := New(loadTestConfig(t), Settings{PreviewPassword: "secret"}, ViewFuncs{})
	err := app.Start()
	if err == nil || !strings.Contains(err.Error(), "SessionSecret") {
		t.Errorf("Start = %v, want SessionSecret error", err)
	}
}
