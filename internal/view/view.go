// Package view renders the site's HTML. Components implement
// templ.Component so handlers can render full pages and also stream
// individual fragments over SSE patches.
package view

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/aibbs/aibbs-web/internal/domain"
)

// Frame is the per-request chrome state shared by every full page: the
// viewer, the header search box seed, and which category tab is active.
type Frame struct {
	SiteName string
	Tagline  string
	User     *domain.User
	Search   string
	Active   string // active category slug, "" on home
	Stats    *domain.SiteStats
	SignIn   *domain.SignInStatus
}

// Title renders "{context} - {site}" or just the site name on home.
func (f Frame) Title(titleContext string) string {
	if titleContext == "" {
		return f.SiteName
	}
	return titleContext + " - " + f.SiteName
}

func esc(s string) string { return templ.EscapeString(s) }

// component adapts a builder function to templ.Component. Page bodies are
// assembled in memory first so a render error can never emit half a page.
func component(build func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		build(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
