package view

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/aibbs/aibbs-web/internal/domain"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"

// layout wraps a page body in the shared chrome: head, header with category
// tabs and search, the notification mount point, and the footer.
func layout(f Frame, titleContext string, body func(b *strings.Builder)) func(b *strings.Builder) {
	return func(b *strings.Builder) {
		b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
		b.WriteString(`<meta charset="utf-8">` + "\n")
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
		fmt.Fprintf(b, "<title>%s</title>\n", esc(f.Title(titleContext)))
		b.WriteString(`<link rel="stylesheet" href="/static/site.css">` + "\n")
		fmt.Fprintf(b, `<script type="module" src="%s"></script>`+"\n", datastarScript)
		b.WriteString("</head>\n<body>\n")

		header(f, b)
		b.WriteString(`<div id="notify-container"></div>` + "\n")
		b.WriteString(`<main id="content">` + "\n")
		body(b)
		b.WriteString("</main>\n")
		footer(f, b)

		b.WriteString("</body>\n</html>\n")
	}
}

func header(f Frame, b *strings.Builder) {
	b.WriteString(`<header class="site-header">` + "\n")
	fmt.Fprintf(b, `<a class="site-name" href="/">%s</a>`+"\n", esc(f.SiteName))

	b.WriteString(`<nav class="category-tabs">` + "\n")
	active := ""
	if f.Active == "" && f.Search == "" {
		active = ` class="active"`
	}
	fmt.Fprintf(b, `<a href="/"%s>Home</a>`+"\n", active)
	for _, c := range domain.Categories {
		active = ""
		if c.Slug == f.Active {
			active = ` class="active"`
		}
		fmt.Fprintf(b, `<a href="/categories/%s"%s>%s</a>`+"\n", c.Slug, active, esc(c.Label))
	}
	b.WriteString("</nav>\n")

	// Search submits as a plain GET so the query lands in the address bar.
	b.WriteString(`<form class="search" method="get" action="/">` + "\n")
	fmt.Fprintf(b, `<input type="search" name="search" placeholder="Search posts" value="%s">`+"\n", esc(f.Search))
	b.WriteString(`<button type="submit">Search</button>` + "\n</form>\n")

	userBox(f, b)
	b.WriteString("</header>\n")
}

func userBox(f Frame, b *strings.Builder) {
	b.WriteString(`<div class="user-box">` + "\n")
	if f.User == nil {
		b.WriteString(`<a href="/login">Log in</a> <a href="/register">Register</a>` + "\n")
	} else {
		fmt.Fprintf(b, `<a href="/personal/%s" class="me">%s</a>`+"\n",
			esc(f.User.Username), esc(f.User.DisplayName()))
		fmt.Fprintf(b, `<span class="points">%d pts</span>`+"\n", f.User.Points)
		signInBox(f.SignIn, b)
		b.WriteString(`<a href="/my-posts">My posts</a>` + "\n")
		// Carry the browsed category into the editor so it comes pre-selected.
		publish := "/publish"
		if f.Active != "" {
			publish += "?category=" + f.Active
		}
		fmt.Fprintf(b, `<a href="%s" class="publish">New post</a>`+"\n", publish)
		b.WriteString(`<form method="post" action="/logout" class="inline"><button type="submit">Log out</button></form>` + "\n")
	}
	b.WriteString("</div>\n")
}

func signInBox(status *domain.SignInStatus, b *strings.Builder) {
	b.WriteString(`<span id="signin-box">`)
	switch {
	case status == nil:
		// Status unknown (backend unreachable); keep the button usable.
		b.WriteString(`<button data-on-click="@post('/actions/signin')">Sign in</button>`)
	case status.SignedToday:
		fmt.Fprintf(b, `<span class="signed">Signed in, day %d</span>`, status.ConsecutiveDays)
	default:
		b.WriteString(`<button data-on-click="@post('/actions/signin')">Daily sign-in</button>`)
	}
	b.WriteString("</span>\n")
}

func footer(f Frame, b *strings.Builder) {
	b.WriteString(`<footer class="site-footer">` + "\n")
	if f.Tagline != "" {
		fmt.Fprintf(b, `<p class="tagline">%s</p>`+"\n", esc(f.Tagline))
	}
	if f.Stats != nil {
		fmt.Fprintf(b, `<p class="site-stats">%d posts · %d members · %d active today</p>`+"\n",
			f.Stats.Posts, f.Stats.Users, f.Stats.DailyActive)
	}
	b.WriteString("</footer>\n")
}

// SignInBoxFragment re-renders the header sign-in state after a daily
// sign-in, patched into #signin-box over SSE.
func SignInBoxFragment(status *domain.SignInStatus) templ.Component {
	return component(func(b *strings.Builder) {
		signInBox(status, b)
	})
}
