package view

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/aibbs/aibbs-web/internal/domain"
	"github.com/aibbs/aibbs-web/internal/route"
)

// ListPage renders a page of post cards for the home, category, and search
// views. The route decides the pagination link targets.
func ListPage(f Frame, r route.Route, list *domain.PostList) templ.Component {
	return component(layout(f, r.TitleContext(), func(b *strings.Builder) {
		if r.Kind == route.KindSearch {
			fmt.Fprintf(b, `<h1 class="list-title">Search: %s</h1>`+"\n", esc(r.Query))
		} else if !r.ListCategory().IsAll() {
			fmt.Fprintf(b, `<h1 class="list-title">%s</h1>`+"\n", esc(r.ListCategory().Label))
		}

		if len(list.Items) == 0 {
			b.WriteString(`<p class="empty">No posts yet.</p>` + "\n")
			return
		}

		b.WriteString(`<div class="post-list">` + "\n")
		for i := range list.Items {
			postCard(&list.Items[i], b)
		}
		b.WriteString("</div>\n")

		listPager(r, list.Pagination, b)
	}))
}

func postCard(p *domain.Post, b *strings.Builder) {
	fmt.Fprintf(b, `<article class="post-card" id="post-card-%d">`+"\n", p.ID)

	detail := route.ForPost(p.ID, 1).URL()
	fmt.Fprintf(b, `<h2><a href="%s">%s</a></h2>`+"\n", detail, esc(p.Title))
	fmt.Fprintf(b, `<p class="excerpt">%s</p>`+"\n", esc(Excerpt(p.Content)))

	b.WriteString(`<div class="card-meta">`)
	authorLink(p.Author, b)
	if c := domain.CategoryByLabel(p.Category); !c.IsAll() {
		fmt.Fprintf(b, ` <a class="badge" href="/categories/%s">%s</a>`, c.Slug, esc(c.Label))
	}
	fmt.Fprintf(b, ` <time>%s</time>`, formatTime(p.CreatedAt))

	// Counters load lazily so a slow stats endpoint never blocks the list.
	fmt.Fprintf(b, ` <span id="post-stats-%d" data-on-load="@get('/fragments/post-stats/%d')"></span>`,
		p.ID, p.ID)
	b.WriteString("</div>\n</article>\n")
}

// PostStatsFragment fills a card's counter slot, patched by element ID.
func PostStatsFragment(postID int64, stats *domain.PostStats) templ.Component {
	return component(func(b *strings.Builder) {
		fmt.Fprintf(b, `<span id="post-stats-%d">`, postID)
		if stats != nil {
			fmt.Fprintf(b, `%d comments · %d views`, stats.Comments, stats.Views)
		}
		b.WriteString("</span>")
	})
}

// listPager prints numbered page links. Lists with a single page get no
// pager at all.
func listPager(r route.Route, p domain.Pagination, b *strings.Builder) {
	if p.TotalPages <= 1 {
		return
	}

	b.WriteString(`<nav class="pager">` + "\n")
	for _, n := range pageNumbers(p.Page, p.TotalPages) {
		if n == 0 {
			b.WriteString(`<span class="gap">…</span>`)
			continue
		}
		if n == p.Page {
			fmt.Fprintf(b, `<span class="current">%d</span>`, n)
			continue
		}
		fmt.Fprintf(b, `<a href="%s">%d</a>`, esc(listPageURL(r, n)), n)
	}
	b.WriteString("\n</nav>\n")
}

// listPageURL appends the page parameter to the route's canonical URL.
func listPageURL(r route.Route, page int) string {
	base := r.URL()
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	if page <= 1 {
		return base
	}
	return fmt.Sprintf("%s%spage=%d", base, sep, page)
}
