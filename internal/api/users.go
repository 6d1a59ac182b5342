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

// ListUsers fetches a page of registered accounts.
func (c *Client) ListUsers(ctx context.Context, token string, page, pageSize int) (*domain.UserList, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(max(page, 1)))
	query.Set("page_size", strconv.Itoa(pageSize))

	raw, err := c.do(ctx, http.MethodGet, "/users", token, query, nil)
	if err != nil {
		return nil, err
	}

	var list domain.UserList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode user list: %w", err)
	}
	return &list, nil
}

// MyPosts fetches the viewer's own posts.
func (c *Client) MyPosts(ctx context.Context, token string, page, pageSize int) (*domain.PostList, error) {
	return c.postPage(ctx, token, "/users/me/posts", page, pageSize)
}

// UserPosts fetches another account's posts.
func (c *Client) UserPosts(ctx context.Context, userID int64, page, pageSize int) (*domain.PostList, error) {
	return c.postPage(ctx, "", "/users/"+strconv.FormatInt(userID, 10)+"/posts", page, pageSize)
}

// UserByUsername resolves a profile page's subject.
func (c *Client) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	raw, err := c.do(ctx, http.MethodGet, "/user/by-username/"+url.PathEscape(username), "", nil, nil)
	if err != nil {
		return nil, err
	}

	user := &domain.User{}
	if err := unmarshalKeyed(raw, "user", user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if user.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (c *Client) postPage(ctx context.Context, token, path string, page, pageSize int) (*domain.PostList, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(max(page, 1)))
	query.Set("page_size", strconv.Itoa(pageSize))

	raw, err := c.do(ctx, http.MethodGet, path, token, query, nil)
	if err != nil {
		return nil, err
	}

	var list domain.PostList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode post list: %w", err)
	}
	return &list, nil
}
