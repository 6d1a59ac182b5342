package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aibbs/aibbs-web/internal/domain"
)

// ListQuery selects one page of the post listing.
type ListQuery struct {
	Page     int
	PageSize int
	Search   string
	Category string
}

// ListPosts fetches a page of posts. Works unauthenticated.
func (c *Client) ListPosts(ctx context.Context, q ListQuery) (*domain.PostList, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(max(q.Page, 1)))
	query.Set("page_size", strconv.Itoa(q.PageSize))
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Category != "" {
		query.Set("category", q.Category)
	}

	raw, err := c.do(ctx, http.MethodGet, "/posts", "", query, nil)
	if err != nil {
		return nil, err
	}

	var list domain.PostList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode post list: %w", err)
	}
	return &list, nil
}

// GetPost fetches a single post with its embedded comments and author.
// Observed payload shapes: {post:{...}} and the bare post object.
func (c *Client) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	raw, err := c.do(ctx, http.MethodGet, "/posts/"+strconv.FormatInt(id, 10), "", nil, nil)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{}
	if err := unmarshalKeyed(raw, "post", post); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}
	if post.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return post, nil
}

// PostInput is the write payload for create/update. Attachments is the
// JSON-encoded URL array the backend stores verbatim.
type PostInput struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Category    string `json:"category"`
	Attachments string `json:"attachments"`
}

// CreatePost publishes a new post.
func (c *Client) CreatePost(ctx context.Context, token string, in PostInput) error {
	_, err := c.do(ctx, http.MethodPost, "/posts", token, nil, in)
	return err
}

// UpdatePost replaces an existing post's fields.
func (c *Client) UpdatePost(ctx context.Context, token string, id int64, in PostInput) error {
	_, err := c.do(ctx, http.MethodPut, "/posts/"+strconv.FormatInt(id, 10), token, nil, in)
	return err
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, token string, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, "/posts/"+strconv.FormatInt(id, 10), token, nil, nil)
	return err
}

// PostStats fetches the per-card counters. Field names have drifted on the
// backend (comments_count vs reply_count, pv vs view_count); both spellings
// are accepted.
func (c *Client) PostStats(ctx context.Context, id int64) (*domain.PostStats, error) {
	raw, err := c.do(ctx, http.MethodGet, "/posts/"+strconv.FormatInt(id, 10)+"/stats", "", nil, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		CommentsCount *int `json:"comments_count"`
		ReplyCount    *int `json:"reply_count"`
		PV            *int `json:"pv"`
		ViewCount     *int `json:"view_count"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode post stats: %w", err)
	}

	return &domain.PostStats{
		Comments: firstInt(payload.CommentsCount, payload.ReplyCount),
		Views:    firstInt(payload.PV, payload.ViewCount),
	}, nil
}

// SiteStats fetches the global counters shown on list pages.
func (c *Client) SiteStats(ctx context.Context) (*domain.SiteStats, error) {
	raw, err := c.do(ctx, http.MethodGet, "/stats", "", nil, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		PostCount        *int `json:"post_count"`
		Posts            *int `json:"posts"`
		UserCount        *int `json:"user_count"`
		Users            *int `json:"users"`
		DailyActive      *int `json:"daily_active"`
		DailyActiveCount *int `json:"daily_active_count"`
		DailyActiveUsers *int `json:"daily_active_users"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode site stats: %w", err)
	}

	return &domain.SiteStats{
		Posts:       firstInt(payload.PostCount, payload.Posts),
		Users:       firstInt(payload.UserCount, payload.Users),
		DailyActive: firstInt(payload.DailyActive, payload.DailyActiveCount, payload.DailyActiveUsers),
	}, nil
}

func firstInt(vals ...*int) int {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}
