package domain

// CommentPageSize is fixed; the backend embeds the full comment list in the
// post payload and paging happens here.
const CommentPageSize = 10

// CommentPage slices the embedded comment list for the requested page.
// The page is clamped into [1, totalPages], so out-of-range requests never
// fail; they show the nearest valid page.
func CommentPage(comments []Comment, page int) (items []Comment, current, totalPages int) {
	totalPages = (len(comments) + CommentPageSize - 1) / CommentPageSize
	if totalPages < 1 {
		totalPages = 1
	}
	current = page
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}
	start := (current - 1) * CommentPageSize
	end := start + CommentPageSize
	if start >= len(comments) {
		return nil, current, totalPages
	}
	if end > len(comments) {
		end = len(comments)
	}
	return comments[start:end], current, totalPages
}
