package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aibbs/aibbs-web/internal/domain"
)

// CreateComment posts a reply and returns the stored comment so the caller
// can splice it into the rendered thread without refetching the post.
// Observed payload shapes: {comment:{...}} and the bare comment object.
func (c *Client) CreateComment(ctx context.Context, token string, postID int64, content string) (*domain.Comment, error) {
	raw, err := c.do(ctx, http.MethodPost, "/posts/"+strconv.FormatInt(postID, 10)+"/comments", token, nil,
		map[string]string{"content": content})
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{}
	if err := unmarshalKeyed(raw, "comment", comment); err != nil {
		return nil, fmt.Errorf("decode comment: %w", err)
	}
	return comment, nil
}

// DeleteComment removes a comment by ID.
func (c *Client) DeleteComment(ctx context.Context, token string, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, "/comments/"+strconv.FormatInt(id, 10), token, nil, nil)
	return err
}
