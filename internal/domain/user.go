package domain

import "time"

// User is the backend's representation of a forum account. The frontend
// never sees password material; `is_admin` is trusted as delivered by
// GET /auth/me.
type User struct {
	ID              int64      `json:"id"`
	Username        string     `json:"username"`
	Email           string     `json:"email,omitempty"`
	AvatarURL       string     `json:"avatar_url,omitempty"`
	Signature       string     `json:"signature,omitempty"`
	Points          int        `json:"points"`
	IsAdmin         bool       `json:"is_admin"`
	ConsecutiveDays int        `json:"consecutive_days,omitempty"`
	LastSignInAt    *time.Time `json:"last_signin_at,omitempty"`
	RegisterIP      string     `json:"register_ip,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// DisplayName returns the name shown next to posts and comments.
func (u *User) DisplayName() string {
	if u == nil || u.Username == "" {
		return "unknown"
	}
	return u.Username
}
