package view

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/aibbs/aibbs-web/internal/domain"
)

// ProfilePage renders a member's public profile and their posts. The
// signature form only appears on the viewer's own profile.
func ProfilePage(f Frame, profile *domain.User, posts *domain.PostList) templ.Component {
	return component(layout(f, profile.DisplayName(), func(b *strings.Builder) {
		b.WriteString(`<section class="profile-card">` + "\n")
		if profile.AvatarURL != "" {
			fmt.Fprintf(b, `<img class="avatar" src="%s" alt="">`+"\n", esc(profile.AvatarURL))
		}
		fmt.Fprintf(b, `<h1>%s</h1>`+"\n", esc(profile.DisplayName()))
		fmt.Fprintf(b, `<p class="profile-meta">%d pts · member since %s</p>`+"\n",
			profile.Points, profile.CreatedAt.Local().Format("2006-01-02"))
		if profile.ConsecutiveDays > 0 {
			fmt.Fprintf(b, `<p class="streak">%d day sign-in streak</p>`+"\n", profile.ConsecutiveDays)
		}

		if domain.CanEditSignature(f.User, profile) {
			signatureForm(profile.Signature, b)
		} else if profile.Signature != "" {
			fmt.Fprintf(b, `<p class="signature">%s</p>`+"\n", esc(profile.Signature))
		}
		b.WriteString("</section>\n")

		fmt.Fprintf(b, `<h2>Posts by %s</h2>`+"\n", esc(profile.DisplayName()))
		postListSection(f.User, posts, "/personal/"+profile.Username, b)
	}))
}

func signatureForm(signature string, b *strings.Builder) {
	b.WriteString(`<form class="signature-form" method="post" action="/profile/signature">` + "\n")
	fmt.Fprintf(b, `<label>Signature<input name="signature" maxlength="200" value="%s"></label>`+"\n", esc(signature))
	b.WriteString(`<button type="submit">Update</button>` + "\n</form>\n")
}

// MyPostsPage lists the viewer's own posts with edit and delete shortcuts.
func MyPostsPage(f Frame, posts *domain.PostList) templ.Component {
	return component(layout(f, "My posts", func(b *strings.Builder) {
		b.WriteString(`<h1>My posts</h1>` + "\n")
		postListSection(f.User, posts, "/my-posts", b)
	}))
}

// postListSection is the shared card list + pager used by the profile and
// my-posts views, where pagination is a plain page query parameter.
func postListSection(viewer *domain.User, posts *domain.PostList, baseURL string, b *strings.Builder) {
	if len(posts.Items) == 0 {
		b.WriteString(`<p class="empty">No posts yet.</p>` + "\n")
		return
	}

	b.WriteString(`<div class="post-list">` + "\n")
	for i := range posts.Items {
		p := &posts.Items[i]
		postCard(p, b)
		if domain.CanEditPost(viewer, p) {
			postControls(viewer, p, b)
		}
	}
	b.WriteString("</div>\n")
	queryPager(baseURL, posts.Pagination, b)
}

// UsersPage renders the member directory.
func UsersPage(f Frame, users *domain.UserList) templ.Component {
	return component(layout(f, "Members", func(b *strings.Builder) {
		b.WriteString(`<h1>Members</h1>` + "\n")
		if len(users.Items) == 0 {
			b.WriteString(`<p class="empty">No members found.</p>` + "\n")
			return
		}

		b.WriteString(`<div class="user-grid">` + "\n")
		for i := range users.Items {
			u := &users.Items[i]
			fmt.Fprintf(b, `<div class="user-card"><a href="/personal/%s">%s</a><span>%d pts</span></div>`+"\n",
				esc(u.Username), esc(u.DisplayName()), u.Points)
		}
		b.WriteString("</div>\n")
		queryPager("/users", users.Pagination, b)
	}))
}

// queryPager is the pager for views addressed by a page query parameter
// rather than a path segment.
func queryPager(baseURL string, p domain.Pagination, b *strings.Builder) {
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
		href := baseURL
		if n > 1 {
			href = fmt.Sprintf("%s?page=%d", baseURL, n)
		}
		fmt.Fprintf(b, `<a href="%s">%d</a>`, esc(href), n)
	}
	b.WriteString("\n</nav>\n")
}
