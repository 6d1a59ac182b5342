package domain

import "time"

// Post is a forum post as served by the backend. Content is raw markdown;
// Attachments is a JSON-encoded array of URLs kept as an opaque string, the
// shape the backend stores and returns it in.
type Post struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Attachments string    `json:"attachments,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Author      *User     `json:"author,omitempty"`
	Comments    []Comment `json:"comments,omitempty"`
}

// Comment is a reply to a post. Bodies are plain text.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    *User     `json:"author,omitempty"`
}

// Pagination describes one page of a server-side listing.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// PostList is one page of posts plus its pagination window.
type PostList struct {
	Items      []Post     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// UserList is one page of accounts.
type UserList struct {
	Items      []User     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// PostStats are the lazily loaded per-card counters.
type PostStats struct {
	Comments int
	Views    int
}

// SiteStats feed the footer counters on list pages.
type SiteStats struct {
	Posts       int
	Users       int
	DailyActive int
}

// SignInStatus is the viewer's daily sign-in state.
type SignInStatus struct {
	Points          int
	ConsecutiveDays int
	SignedToday     bool
}

// Captcha is a graphical challenge served by the backend; Image is a data URL.
type Captcha struct {
	ID    string `json:"id"`
	Image string `json:"image"`
}
