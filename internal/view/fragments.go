package view

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"
)

// Notification renders a dismissible toast patched into #notify-container.
// It expires on its own after a few seconds; kind is "info", "success", or
// "error" and only picks the style.
func Notification(kind, message string) templ.Component {
	return component(func(b *strings.Builder) {
		fmt.Fprintf(b,
			`<div id="notify" class="notify notify-%s" data-on-load="setTimeout(() => el.remove(), 4000)">%s`+
				`<button class="notify-close" data-on-click="el.parentElement.remove()">×</button></div>`,
			esc(kind), esc(message))
	})
}

// ErrorPage is the full-page error view for backend failures that leave
// nothing to render.
func ErrorPage(f Frame, status int, message string) templ.Component {
	return component(layout(f, "Error", func(b *strings.Builder) {
		fmt.Fprintf(b, `<h1>%d</h1>`+"\n", status)
		fmt.Fprintf(b, `<p>%s</p>`+"\n", esc(message))
		b.WriteString(`<p><a href="/">Back to the front page</a></p>` + "\n")
	}))
}
