package view

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/aibbs/aibbs-web/internal/domain"
	"github.com/aibbs/aibbs-web/internal/route"
)

// PostDetailPage renders a post with its comment thread. contentHTML is the
// post body already rendered and sanitized by the markdown package; comments
// are paginated client-side of the backend, which returns the full thread.
func PostDetailPage(f Frame, post *domain.Post, contentHTML string, commentPage int) templ.Component {
	return component(layout(f, post.Title, func(b *strings.Builder) {
		b.WriteString(`<article class="post-detail">` + "\n")
		fmt.Fprintf(b, `<h1>%s</h1>`+"\n", esc(post.Title))

		b.WriteString(`<div class="post-meta">`)
		authorLink(post.Author, b)
		if c := domain.CategoryByLabel(post.Category); !c.IsAll() {
			fmt.Fprintf(b, ` <a class="badge" href="/categories/%s">%s</a>`, c.Slug, esc(c.Label))
		}
		fmt.Fprintf(b, ` <time>%s</time>`, formatTime(post.CreatedAt))
		b.WriteString("</div>\n")

		postControls(f.User, post, b)

		fmt.Fprintf(b, `<div class="post-body">%s</div>`+"\n", contentHTML)
		b.WriteString("</article>\n")

		commentSection(f.User, post, commentPage, b)
	}))
}

func postControls(viewer *domain.User, post *domain.Post, b *strings.Builder) {
	canEdit := domain.CanEditPost(viewer, post)
	canDelete := domain.CanDeletePost(viewer, post)
	if !canEdit && !canDelete {
		return
	}

	b.WriteString(`<div class="post-controls">`)
	if canEdit {
		fmt.Fprintf(b, `<a href="/edit/%d">Edit</a> `, post.ID)
	}
	if canDelete {
		fmt.Fprintf(b, `<form method="post" action="/posts/%d/delete" class="inline" `+
			`onsubmit="return confirm('Delete this post?')"><button type="submit">Delete</button></form>`,
			post.ID)
	}
	b.WriteString("</div>\n")
}

func commentSection(viewer *domain.User, post *domain.Post, page int, b *strings.Builder) {
	items, current, totalPages := domain.CommentPage(post.Comments, page)

	b.WriteString(`<section class="comments-section">` + "\n")
	fmt.Fprintf(b, `<h2>%d comments</h2>`+"\n", len(post.Comments))

	b.WriteString(`<div id="comments">` + "\n")
	for i := range items {
		commentCard(viewer, &items[i], b)
	}
	b.WriteString("</div>\n")

	commentPager(post.ID, current, totalPages, b)
	commentForm(viewer, post.ID, b)
	b.WriteString("</section>\n")
}

func commentCard(viewer *domain.User, c *domain.Comment, b *strings.Builder) {
	fmt.Fprintf(b, `<div class="comment-card" id="comment-card-%d">`+"\n", c.ID)
	b.WriteString(`<div class="comment-meta">`)
	authorLink(c.Author, b)
	fmt.Fprintf(b, ` <time>%s</time>`, formatTime(c.CreatedAt))
	if domain.CanDeleteComment(viewer, c) {
		fmt.Fprintf(b, ` <button class="delete" data-on-click="@delete('/actions/comments/%d')">Delete</button>`, c.ID)
	}
	b.WriteString("</div>\n")
	fmt.Fprintf(b, `<p class="comment-body">%s</p>`+"\n", esc(c.Content))
	b.WriteString("</div>\n")
}

// CommentCardFragment renders a single comment for the SSE prepend after a
// successful submit.
func CommentCardFragment(viewer *domain.User, c *domain.Comment) templ.Component {
	return component(func(b *strings.Builder) {
		commentCard(viewer, c, b)
	})
}

func commentPager(postID int64, current, totalPages int, b *strings.Builder) {
	if totalPages <= 1 {
		return
	}

	b.WriteString(`<nav class="pager comment-pager">` + "\n")
	for _, n := range pageNumbers(current, totalPages) {
		if n == 0 {
			b.WriteString(`<span class="gap">…</span>`)
			continue
		}
		if n == current {
			fmt.Fprintf(b, `<span class="current">%d</span>`, n)
			continue
		}
		fmt.Fprintf(b, `<a href="%s">%d</a>`, route.ForPost(postID, n).URL(), n)
	}
	b.WriteString("\n</nav>\n")
}

func commentForm(viewer *domain.User, postID int64, b *strings.Builder) {
	if !domain.CanComment(viewer) {
		b.WriteString(`<p class="login-hint"><a href="/login">Log in</a> to join the discussion.</p>` + "\n")
		return
	}

	b.WriteString(`<div class="comment-form" data-signals="{comment: '', submitting: false}">` + "\n")
	b.WriteString(`<textarea data-bind-comment placeholder="Write a comment"></textarea>` + "\n")
	fmt.Fprintf(b, `<button data-on-click="@post('/actions/posts/%d/comments')" `+
		`data-indicator-submitting data-attr-disabled="$submitting">Reply</button>`+"\n", postID)
	b.WriteString("</div>\n")
}
