// Package route translates between the address bar and view state. The URL
// grammar is the externally bookmarkable contract and every canonical route
// satisfies the round-trip law Parse(r.URL()) == r.
package route

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/aibbs/aibbs-web/internal/domain"
)

// Kind discriminates the view families.
type Kind int

const (
	KindHome Kind = iota
	KindCategory
	KindPost
	KindSearch
)

// Route is a parsed location. Exactly the fields relevant to its Kind are
// set: Category for KindCategory, PostID/CommentPage for KindPost, Query for
// KindSearch.
type Route struct {
	Kind        Kind
	Category    domain.Category
	PostID      int64
	CommentPage int
	Query       string
}

func Home() Route { return Route{Kind: KindHome} }

func ForCategory(c domain.Category) Route { return Route{Kind: KindCategory, Category: c} }

func Search(query string) Route { return Route{Kind: KindSearch, Query: query} }

// ForPost builds a post-detail route; a non-positive comment page defaults
// to 1 so printed URLs are always canonical.
func ForPost(id int64, commentPage int) Route {
	if commentPage < 1 {
		commentPage = 1
	}
	return Route{Kind: KindPost, PostID: id, CommentPage: commentPage}
}

var (
	categoryPath = regexp.MustCompile(`^/categories/([a-z0-9-]+)/?$`)
	postPath     = regexp.MustCompile(`^/post-(\d+)-(\d+)$`)
)

// Parse matches a URL against the grammar top to bottom: home (with the
// optional search query), category, post detail, then the home fallback for
// everything else. A category route with an unknown slug falls back to Home,
// matching the zero category meaning "all".
func Parse(u *url.URL) Route {
	path := u.Path
	if path == "" {
		path = "/"
	}

	if path == "/" || path == "/index.html" {
		if q := strings.TrimSpace(u.Query().Get("search")); q != "" {
			return Search(q)
		}
		return Home()
	}

	if m := categoryPath.FindStringSubmatch(path); m != nil {
		c := domain.CategoryBySlug(m[1])
		if c.IsAll() {
			return Home()
		}
		return ForCategory(c)
	}

	if m := postPath.FindStringSubmatch(path); m != nil {
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || id < 1 {
			return Home()
		}
		page, err := strconv.Atoi(m[2])
		if err != nil || page < 1 {
			page = 1
		}
		return ForPost(id, page)
	}

	return Home()
}

// ParseString is Parse for a raw request URI.
func ParseString(rawURL string) Route {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Home()
	}
	return Parse(u)
}

// URL prints the canonical address for the route.
func (r Route) URL() string {
	switch r.Kind {
	case KindCategory:
		if r.Category.IsAll() {
			return "/"
		}
		return "/categories/" + r.Category.Slug
	case KindPost:
		page := r.CommentPage
		if page < 1 {
			page = 1
		}
		return fmt.Sprintf("/post-%d-%d", r.PostID, page)
	case KindSearch:
		return "/?search=" + url.QueryEscape(r.Query)
	default:
		return "/"
	}
}

// TitleContext is the part of the document title ahead of the site name:
// empty for home, the category label, "Search: q", or empty for post routes
// (the post title is only known after the fetch).
func (r Route) TitleContext() string {
	switch r.Kind {
	case KindCategory:
		return r.Category.Label
	case KindSearch:
		return "Search: " + r.Query
	default:
		return ""
	}
}

// SearchQuery returns the seeded search state. Post routes never carry a
// search context.
func (r Route) SearchQuery() string {
	if r.Kind == KindSearch {
		return r.Query
	}
	return ""
}

// ListCategory returns the category filter the route implies.
func (r Route) ListCategory() domain.Category {
	if r.Kind == KindCategory {
		return r.Category
	}
	return domain.Category{}
}
