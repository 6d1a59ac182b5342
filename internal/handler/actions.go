package handler

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/aibbs/aibbs-web/internal/api"
	"github.com/aibbs/aibbs-web/internal/domain"
	"github.com/aibbs/aibbs-web/internal/view"
)

// ActionHandler serves the datastar endpoints: small SSE responses that
// patch fragments into the current page instead of navigating.
type ActionHandler struct {
	backend *api.Client
}

// NewActionHandler creates a new ActionHandler.
func NewActionHandler(backend *api.Client) *ActionHandler {
	return &ActionHandler{backend: backend}
}

// notify patches a toast into the page's notification mount point.
func notify(sse *datastar.ServerSentEventGenerator, kind, message string) {
	sse.PatchElementTempl(
		view.Notification(kind, message),
		datastar.WithSelectorID("notify-container"),
		datastar.WithModeInner(),
	)
}

// HandlePostStats fills a post card's counter slot. Failures patch an empty
// slot: counters are decoration and must never surface an error banner.
// GET /fragments/post-stats/{id}
func (h *ActionHandler) HandlePostStats(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	stats, err := h.backend.PostStats(r.Context(), id)
	if err != nil {
		stats = nil
	}

	sse := datastar.NewSSE(w, r)
	sse.PatchElementTempl(view.PostStatsFragment(id, stats))
}

// HandleCommentCreate submits a comment and splices the new card into the
// top of the thread, trimming the list back to one page.
// POST /actions/posts/{id}/comments
func (h *ActionHandler) HandleCommentCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var signals struct {
		Comment string `json:"comment"`
	}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)

	content := strings.TrimSpace(signals.Comment)
	if content == "" {
		notify(sse, "error", "Write something first.")
		return
	}

	comment, err := h.backend.CreateComment(r.Context(), Token(r.Context()), postID, content)
	if err != nil {
		slog.Error("create comment", "post", postID, "error", err)
		notify(sse, "error", "Could not post the comment. Try again in a moment.")
		return
	}
	if comment.Author == nil {
		comment.Author = user
	}

	sse.PatchElementTempl(
		view.CommentCardFragment(user, comment),
		datastar.WithSelectorID("comments"),
		datastar.WithModePrepend(),
	)

	// Keep the visible thread at one page after the prepend.
	sse.PatchElements("",
		datastar.WithSelector(fmt.Sprintf("#comments > .comment-card:nth-child(n+%d)", domain.CommentPageSize+1)),
		datastar.WithModeRemove(),
	)

	sse.MarshalAndPatchSignals(map[string]any{"comment": ""})
	notify(sse, "success", "Comment posted.")
}

// HandleCommentDelete removes a comment card after the backend confirms the
// deletion. Ownership is enforced by the backend; the button is only
// rendered for owners and admins.
// DELETE /actions/comments/{id}
func (h *ActionHandler) HandleCommentDelete(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := h.backend.DeleteComment(r.Context(), Token(r.Context()), id); err != nil {
		slog.Error("delete comment", "comment", id, "error", err)
		notify(sse, "error", "Could not delete the comment.")
		return
	}

	sse.RemoveElementByID(fmt.Sprintf("comment-card-%d", id))
	notify(sse, "success", "Comment deleted.")
}

// HandleSignIn performs the daily check-in and refreshes the header box.
// POST /actions/signin
func (h *ActionHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sse := datastar.NewSSE(w, r)
	token := Token(r.Context())

	points, err := h.backend.DailySignIn(r.Context(), token)
	if err != nil {
		notify(sse, "error", "Sign-in failed. Try again in a moment.")
		return
	}

	status, err := h.backend.SignInStatus(r.Context(), token)
	if err != nil {
		status = nil
	}
	sse.PatchElementTempl(view.SignInBoxFragment(status))

	if points > 0 {
		notify(sse, "success", fmt.Sprintf("Signed in, +%d points.", points))
	} else {
		notify(sse, "success", "Signed in.")
	}
}

// HandleCaptcha swaps in a fresh challenge.
// GET /actions/captcha
func (h *ActionHandler) HandleCaptcha(w http.ResponseWriter, r *http.Request) {
	captcha, err := h.backend.Captcha(r.Context())
	if err != nil {
		captcha = nil
	}

	sse := datastar.NewSSE(w, r)
	sse.PatchElementTempl(view.CaptchaBoxFragment(captcha))
}

// HandleEmailCode asks the backend to mail a registration code to the
// address currently typed into the form.
// POST /actions/email-code
func (h *ActionHandler) HandleEmailCode(w http.ResponseWriter, r *http.Request) {
	var signals struct {
		Email         string `json:"email"`
		CaptchaID     string `json:"captcha_id"`
		CaptchaAnswer string `json:"captcha_answer"`
	}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)
	if strings.TrimSpace(signals.Email) == "" {
		notify(sse, "error", "Enter your email address first.")
		return
	}

	// Pre-check the captcha so a typo costs a fragment refresh, not a
	// burned email code.
	if signals.CaptchaID != "" {
		if err := h.backend.VerifyCaptcha(r.Context(), signals.CaptchaID, signals.CaptchaAnswer); err != nil {
			notify(sse, "error", "Wrong captcha answer.")
			if captcha, err := h.backend.Captcha(r.Context()); err == nil {
				sse.PatchElementTempl(view.CaptchaBoxFragment(captcha))
			}
			return
		}
	}

	if err := h.backend.SendEmailCode(r.Context(), signals.Email, signals.CaptchaID, signals.CaptchaAnswer); err != nil {
		slog.Error("send email code", "error", err)
		notify(sse, "error", "Could not send the code. Check the address and try again.")
		return
	}
	notify(sse, "success", "Code sent. Check your inbox.")
}

// uploadLimit bounds the decoded attachment size.
const uploadLimit = 10 << 20

// HandleUpload stores the files picked in the editor. The browser binds the
// selection into signals as base64; each file is decoded and forwarded to
// the backend store on its own, so one bad file never blocks the rest of a
// multi-file selection.
// POST /actions/upload
func (h *ActionHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var signals struct {
		Files      []string `json:"files"`
		FilesMimes []string `json:"filesMimes"`
		FilesNames []string `json:"filesNames"`
		Content    string   `json:"content"`
	}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)
	if len(signals.Files) == 0 {
		notify(sse, "error", "Pick a file first.")
		return
	}

	content := signals.Content
	uploaded := 0
	for i, encoded := range signals.Files {
		filename := fmt.Sprintf("upload-%d", i+1)
		if i < len(signals.FilesNames) && signals.FilesNames[i] != "" {
			filename = signals.FilesNames[i]
		}

		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil || len(data) == 0 {
			notify(sse, "error", fmt.Sprintf("%s could not be read.", filename))
			continue
		}
		if len(data) > uploadLimit {
			notify(sse, "error", fmt.Sprintf("%s is too large (10 MB limit).", filename))
			continue
		}

		url, err := h.backend.Upload(r.Context(), Token(r.Context()), filename, bytes.NewReader(data))
		if err != nil {
			slog.Error("upload attachment", "file", filename, "error", err)
			notify(sse, "error", fmt.Sprintf("%s failed to upload. Try again in a moment.", filename))
			continue
		}

		sse.PatchElementTempl(
			view.AttachmentItemFragment(url),
			datastar.WithSelectorID("attachment-list"),
			datastar.WithModeAppend(),
		)

		// Drop a markdown reference into the draft so the file shows up in
		// the rendered post, not just the attachment list.
		ref := fmt.Sprintf("[%s](%s)", filename, url)
		if i < len(signals.FilesMimes) && strings.HasPrefix(signals.FilesMimes[i], "image/") {
			ref = "!" + ref
		}
		if content != "" {
			content += "\n\n"
		}
		content += ref
		uploaded++
	}

	sse.MarshalAndPatchSignals(map[string]any{
		"files": []string{}, "filesMimes": []string{}, "filesNames": []string{},
		"content": content,
	})
	if uploaded == 1 {
		notify(sse, "success", "File uploaded.")
	} else if uploaded > 1 {
		notify(sse, "success", fmt.Sprintf("%d files uploaded.", uploaded))
	}
}
