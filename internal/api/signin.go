package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aibbs/aibbs-web/internal/domain"
)

// DailySignIn performs the once-a-day check-in and returns the points
// awarded (zero when the backend omits the field).
func (c *Client) DailySignIn(ctx context.Context, token string) (int, error) {
	raw, err := c.do(ctx, http.MethodPost, "/signin/daily", token, nil, nil)
	if err != nil {
		return 0, err
	}

	var payload struct {
		PointsAwarded int `json:"points_awarded"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, fmt.Errorf("decode sign-in result: %w", err)
	}
	return payload.PointsAwarded, nil
}

// SignInStatus fetches the viewer's point balance and streak.
func (c *Client) SignInStatus(ctx context.Context, token string) (*domain.SignInStatus, error) {
	raw, err := c.do(ctx, http.MethodGet, "/signin/status", token, nil, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Points          int  `json:"points"`
		ConsecutiveDays int  `json:"consecutive_days"`
		SignedToday     bool `json:"signed_today"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode sign-in status: %w", err)
	}

	return &domain.SignInStatus{
		Points:          payload.Points,
		ConsecutiveDays: payload.ConsecutiveDays,
		SignedToday:     payload.SignedToday,
	}, nil
}
