package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aibbs/aibbs-web/internal/api"
	"github.com/aibbs/aibbs-web/internal/config"
	"github.com/aibbs/aibbs-web/internal/domain"
	"github.com/aibbs/aibbs-web/internal/route"
	"github.com/aibbs/aibbs-web/internal/view"
)

// EditorHandler handles post creation, editing, and deletion. All routes
// require auth; ownership is checked here before the backend is asked.
type EditorHandler struct {
	backend *api.Client
	site    config.Site
}

// NewEditorHandler creates a new EditorHandler.
func NewEditorHandler(backend *api.Client, site config.Site) *EditorHandler {
	return &EditorHandler{backend: backend, site: site}
}

// HandlePublishPage renders the editor, pre-selecting the category the
// visitor was browsing when they clicked through.
// GET /publish
func (h *EditorHandler) HandlePublishPage(w http.ResponseWriter, r *http.Request) {
	draft := &domain.Post{}
	if c := domain.CategoryBySlug(r.URL.Query().Get("category")); !c.IsAll() {
		draft.Category = c.Label
	}
	view.EditorPage(pageFrame(r, h.site), draft, 0, "").Render(r.Context(), w)
}

// HandlePublish creates a post from the editor form.
// POST /publish
func (h *EditorHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	in, err := editorInput(r)
	if err != nil {
		h.renderEditor(w, r, draftFromForm(r), 0, err.Error())
		return
	}

	if err := h.backend.CreatePost(r.Context(), Token(r.Context()), in); err != nil {
		slog.Error("create post", "error", err)
		h.renderEditor(w, r, draftFromForm(r), 0, publishError(err))
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleEditPage renders the editor seeded with an existing post.
// GET /edit/{id}
func (h *EditorHandler) HandleEditPage(w http.ResponseWriter, r *http.Request) {
	post, ok := h.ownedPost(w, r)
	if !ok {
		return
	}
	view.EditorPage(pageFrame(r, h.site), post, post.ID, "").Render(r.Context(), w)
}

// HandleEdit updates an existing post.
// POST /edit/{id}
func (h *EditorHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	post, ok := h.ownedPost(w, r)
	if !ok {
		return
	}

	in, err := editorInput(r)
	if err != nil {
		h.renderEditor(w, r, draftFromForm(r), post.ID, err.Error())
		return
	}

	if err := h.backend.UpdatePost(r.Context(), Token(r.Context()), post.ID, in); err != nil {
		slog.Error("update post", "post", post.ID, "error", err)
		h.renderEditor(w, r, draftFromForm(r), post.ID, publishError(err))
		return
	}

	http.Redirect(w, r, route.ForPost(post.ID, 1).URL(), http.StatusSeeOther)
}

// HandleDelete removes a post. Admins may delete anyone's; authors their own.
// POST /posts/{id}/delete
func (h *EditorHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	post, err := h.backend.GetPost(r.Context(), id)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if !domain.CanDeletePost(UserFromContext(r.Context()), post) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := h.backend.DeletePost(r.Context(), Token(r.Context()), id); err != nil {
		slog.Error("delete post", "post", id, "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ownedPost loads the post behind an edit route and enforces that the
// viewer is its author. Posts the viewer cannot edit 404 rather than leak
// their existence behind an edit URL.
func (h *EditorHandler) ownedPost(w http.ResponseWriter, r *http.Request) (*domain.Post, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil, false
	}

	post, err := h.backend.GetPost(r.Context(), id)
	if err != nil {
		status, message := errorPage(err)
		w.WriteHeader(status)
		view.ErrorPage(pageFrame(r, h.site), status, message).Render(r.Context(), w)
		return nil, false
	}

	if !domain.CanEditPost(UserFromContext(r.Context()), post) {
		w.WriteHeader(http.StatusNotFound)
		view.ErrorPage(pageFrame(r, h.site), http.StatusNotFound, "That page does not exist.").Render(r.Context(), w)
		return nil, false
	}
	return post, true
}

func (h *EditorHandler) renderEditor(w http.ResponseWriter, r *http.Request, draft *domain.Post, editID int64, errMsg string) {
	w.WriteHeader(http.StatusUnprocessableEntity)
	view.EditorPage(pageFrame(r, h.site), draft, editID, errMsg).Render(r.Context(), w)
}

// draftFromForm echoes whatever the user typed back into a failed form so
// nothing is lost on a validation error.
func draftFromForm(r *http.Request) *domain.Post {
	draft := &domain.Post{
		Title:    strings.TrimSpace(r.FormValue("title")),
		Content:  strings.TrimSpace(r.FormValue("content")),
		Category: r.FormValue("category"),
	}
	if urls := r.Form["attachments"]; len(urls) > 0 {
		if encoded, err := json.Marshal(urls); err == nil {
			draft.Attachments = string(encoded)
		}
	}
	return draft
}

// editorInput validates the editor form and re-encodes the attachment URL
// list into the JSON array string the backend stores.
func editorInput(r *http.Request) (api.PostInput, error) {
	if err := r.ParseForm(); err != nil {
		return api.PostInput{}, fmt.Errorf("%w: the form could not be read", domain.ErrInvalidInput)
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))
	category := r.FormValue("category")

	if title == "" || content == "" {
		return api.PostInput{}, fmt.Errorf("%w: title and content are required", domain.ErrInvalidInput)
	}
	if domain.CategoryByLabel(category).IsAll() {
		return api.PostInput{}, fmt.Errorf("%w: pick a category", domain.ErrInvalidInput)
	}

	attachments := ""
	if urls := r.Form["attachments"]; len(urls) > 0 {
		encoded, err := json.Marshal(urls)
		if err != nil {
			return api.PostInput{}, fmt.Errorf("encode attachments: %w", err)
		}
		attachments = string(encoded)
	}

	return api.PostInput{
		Title:       title,
		Content:     content,
		Category:    category,
		Attachments: attachments,
	}, nil
}

func publishError(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Could not save the post. Try again in a moment."
}
