package prosa

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Draft preview: posts marked draft are invisible in production, but an
// authenticated preview session sees them. Login attempts are rate limited
// per IP and compared in constant time.

func (a *App) handlePreview(c echo.Context) error {
	if !IsPreview(c) {
		return Render(c, a.Views.PreviewLogin(false, CsrfToken(c)))
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handlePreviewLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Settings.PreviewPassword)) == 1 {
		if err := setPreviewSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}
	a.loginLimiter.Record(c.RealIP())
	return Render(c, a.Views.PreviewLogin(true, CsrfToken(c)))
}

func handlePreviewLogout(c echo.Context) error {
	if err := clearPreviewSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// resolverFor picks the resolver matching the request's draft visibility: a
// preview session sees drafts even in production.
func (a *App) resolverFor(c echo.Context) *Resolver {
	if a.Settings.PreviewPassword != "" && IsPreview(c) {
		return a.previewResolver
	}
	return a.Resolver
}
