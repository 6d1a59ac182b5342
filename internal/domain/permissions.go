package domain

// Conditional-rendering rules for edit/delete controls and the comment box.
// Handlers enforce the same predicates server-side before calling the
// backend, so hiding a control is never the only guard.

// CanComment reports whether the viewer may submit comments.
func CanComment(viewer *User) bool { return viewer != nil }

// CanEditPost reports whether the viewer may edit the post. Only the author
// edits; admins moderate by deletion, not rewriting.
func CanEditPost(viewer *User, post *Post) bool {
	return viewer != nil && post != nil && viewer.ID == post.UserID
}

// CanDeletePost reports whether the viewer may delete the post.
func CanDeletePost(viewer *User, post *Post) bool {
	if viewer == nil || post == nil {
		return false
	}
	return viewer.IsAdmin || viewer.ID == post.UserID
}

// CanDeleteComment reports whether the viewer may delete the comment.
func CanDeleteComment(viewer *User, comment *Comment) bool {
	if viewer == nil || comment == nil {
		return false
	}
	return viewer.IsAdmin || viewer.ID == comment.UserID
}

// CanEditSignature reports whether the viewer owns the profile being shown.
func CanEditSignature(viewer *User, profile *User) bool {
	return viewer != nil && profile != nil && viewer.Username == profile.Username
}
