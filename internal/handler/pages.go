package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aibbs/aibbs-web/internal/api"
	"github.com/aibbs/aibbs-web/internal/config"
	"github.com/aibbs/aibbs-web/internal/domain"
	"github.com/aibbs/aibbs-web/internal/markdown"
	"github.com/aibbs/aibbs-web/internal/route"
	"github.com/aibbs/aibbs-web/internal/view"
)

// The listing fetches ten posts per page, same as the page size baked into
// the post list UI.
const (
	listPageSize  = 10
	usersPageSize = 30
)

// PageHandler renders the read-only pages: post listings, post detail, the
// member directory, and profiles.
type PageHandler struct {
	backend *api.Client
	md      *markdown.Renderer
	site    config.Site
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(backend *api.Client, md *markdown.Renderer, site config.Site) *PageHandler {
	return &PageHandler{backend: backend, md: md, site: site}
}

// pageFrame assembles the chrome state shared by all full pages.
func pageFrame(r *http.Request, site config.Site) view.Frame {
	return view.Frame{
		SiteName: site.Name,
		Tagline:  site.Tagline,
		User:     UserFromContext(r.Context()),
	}
}

// HandleList renders the home, category, and search views. The three share
// one handler because they are the same listing under different filters,
// and the URL decides which filter applies.
func (h *PageHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	rt := route.Parse(r.URL)
	if rt.Kind == route.KindPost {
		http.Redirect(w, r, rt.URL(), http.StatusFound)
		return
	}

	page := queryPage(r)
	list, err := h.backend.ListPosts(r.Context(), api.ListQuery{
		Page:     page,
		PageSize: listPageSize,
		Search:   rt.SearchQuery(),
		Category: rt.ListCategory().Label,
	})

	f := pageFrame(r, h.site)
	f.Search = rt.SearchQuery()
	f.Active = rt.ListCategory().Slug
	if err != nil {
		h.renderError(w, r, f, err)
		return
	}

	// Footer counters and the sign-in streak are decoration; failures leave
	// them off the page rather than failing the listing.
	if stats, err := h.backend.SiteStats(r.Context()); err == nil {
		f.Stats = stats
	}
	if token := Token(r.Context()); token != "" {
		if status, err := h.backend.SignInStatus(r.Context(), token); err == nil {
			f.SignIn = status
		}
	}

	view.ListPage(f, rt, list).Render(r.Context(), w)
}

// HandleDetail renders a post with its comment thread.
// GET /post-{id}-{page}
func (h *PageHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	rt := route.Parse(r.URL)
	if rt.Kind != route.KindPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	f := pageFrame(r, h.site)
	post, err := h.backend.GetPost(r.Context(), rt.PostID)
	if err != nil {
		h.renderError(w, r, f, err)
		return
	}

	contentHTML, err := h.md.Render(post.Content)
	if err != nil {
		slog.Error("render post body", "post", post.ID, "error", err)
		contentHTML = ""
	}

	view.PostDetailPage(f, post, contentHTML, rt.CommentPage).Render(r.Context(), w)
}

// HandleProfile renders a member's public profile with their posts.
// GET /personal/{username}
func (h *PageHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	f := pageFrame(r, h.site)

	username := chi.URLParam(r, "username")
	profile, err := h.backend.UserByUsername(r.Context(), username)
	if err != nil {
		h.renderError(w, r, f, err)
		return
	}

	posts, err := h.backend.UserPosts(r.Context(), profile.ID, queryPage(r), listPageSize)
	if err != nil {
		h.renderError(w, r, f, err)
		return
	}

	view.ProfilePage(f, profile, posts).Render(r.Context(), w)
}

// HandleUsers renders the member directory.
// GET /users
func (h *PageHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	f := pageFrame(r, h.site)

	users, err := h.backend.ListUsers(r.Context(), Token(r.Context()), queryPage(r), usersPageSize)
	if err != nil {
		h.renderError(w, r, f, err)
		return
	}

	view.UsersPage(f, users).Render(r.Context(), w)
}

// HandleMyPosts renders the viewer's own posts. Requires auth.
// GET /my-posts
func (h *PageHandler) HandleMyPosts(w http.ResponseWriter, r *http.Request) {
	f := pageFrame(r, h.site)

	posts, err := h.backend.MyPosts(r.Context(), Token(r.Context()), queryPage(r), listPageSize)
	if err != nil {
		h.renderError(w, r, f, err)
		return
	}

	view.MyPostsPage(f, posts).Render(r.Context(), w)
}

// renderError maps backend failures to full error pages.
func (h *PageHandler) renderError(w http.ResponseWriter, r *http.Request, f view.Frame, err error) {
	status, message := errorPage(err)
	w.WriteHeader(status)
	view.ErrorPage(f, status, message).Render(r.Context(), w)
}

func errorPage(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "That page does not exist."
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "You need to log in for that."
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "You are not allowed to do that."
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "Slow down a little and try again."
	default:
		slog.Error("backend request", "error", err)
		return http.StatusBadGateway, "The forum backend is not responding. Try again in a moment."
	}
}

func queryPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
