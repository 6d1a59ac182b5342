package domain_test

import (
	"testing"

	"github.com/aibbs/aibbs-web/internal/domain"
)

var (
	owner    = &domain.User{ID: 1, Username: "owner"}
	admin    = &domain.User{ID: 2, Username: "admin", IsAdmin: true}
	stranger = &domain.User{ID: 3, Username: "stranger"}
)

func TestCanDeletePost(t *testing.T) {
	post := &domain.Post{ID: 10, UserID: owner.ID}

	if !domain.CanDeletePost(owner, post) {
		t.Error("owner should be able to delete own post")
	}
	if !domain.CanDeletePost(admin, post) {
		t.Error("admin should be able to delete any post")
	}
	if domain.CanDeletePost(stranger, post) {
		t.Error("stranger should not be able to delete post")
	}
	if domain.CanDeletePost(nil, post) {
		t.Error("anonymous viewer should not be able to delete post")
	}
}

func TestCanEditPost_OwnerOnly(t *testing.T) {
	post := &domain.Post{ID: 10, UserID: owner.ID}

	if !domain.CanEditPost(owner, post) {
		t.Error("owner should be able to edit own post")
	}
	if domain.CanEditPost(admin, post) {
		t.Error("admin should not be able to edit another user's post")
	}
	if domain.CanEditPost(stranger, post) {
		t.Error("stranger should not be able to edit post")
	}
}

func TestCanDeleteComment(t *testing.T) {
	comment := &domain.Comment{ID: 5, UserID: owner.ID}

	if !domain.CanDeleteComment(owner, comment) {
		t.Error("author should be able to delete own comment")
	}
	if !domain.CanDeleteComment(admin, comment) {
		t.Error("admin should be able to delete any comment")
	}
	if domain.CanDeleteComment(stranger, comment) {
		t.Error("stranger should not be able to delete comment")
	}
	if domain.CanDeleteComment(nil, comment) {
		t.Error("anonymous viewer should not be able to delete comment")
	}
}

func TestCanComment(t *testing.T) {
	if !domain.CanComment(owner) {
		t.Error("logged-in user should be able to comment")
	}
	if domain.CanComment(nil) {
		t.Error("anonymous viewer should not be able to comment")
	}
}

func TestCanEditSignature(t *testing.T) {
	profile := &domain.User{ID: 99, Username: "owner"}

	if !domain.CanEditSignature(owner, profile) {
		t.Error("matching username should allow signature editing")
	}
	if domain.CanEditSignature(stranger, profile) {
		t.Error("different username should not allow signature editing")
	}
	if domain.CanEditSignature(nil, profile) {
		t.Error("anonymous viewer should not edit signatures")
	}
}
