package view

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/aibbs/aibbs-web/internal/domain"
)

// EditorPage renders the publish form. draft seeds the fields and may be
// nil; a non-zero editID turns the form into the edit flow for that post.
func EditorPage(f Frame, draft *domain.Post, editID int64, errMsg string) templ.Component {
	titleContext := "New post"
	action := "/publish"
	if editID != 0 {
		titleContext = "Edit post"
		action = fmt.Sprintf("/edit/%d", editID)
	}

	return component(layout(f, titleContext, func(b *strings.Builder) {
		fmt.Fprintf(b, `<h1>%s</h1>`+"\n", esc(titleContext))
		formError(errMsg, b)

		fmt.Fprintf(b, `<form class="editor" method="post" action="%s">`+"\n", action)

		title, content, category := "", "", ""
		if draft != nil {
			title, content, category = draft.Title, draft.Content, draft.Category
		}

		b.WriteString(`<label>Title`)
		fmt.Fprintf(b, `<input name="title" required maxlength="120" value="%s">`, esc(title))
		b.WriteString("</label>\n")

		b.WriteString(`<label>Category<select name="category">` + "\n")
		for _, c := range domain.Categories {
			selected := ""
			if c.Label == category {
				selected = " selected"
			}
			fmt.Fprintf(b, `<option value="%s"%s>%s</option>`+"\n", esc(c.Label), selected, esc(c.Label))
		}
		b.WriteString("</select></label>\n")

		b.WriteString(`<label>Content (markdown)`)
		fmt.Fprintf(b, `<textarea name="content" rows="14" required data-bind-content>%s</textarea>`, esc(content))
		b.WriteString("</label>\n")

		attachmentEditor(draft, b)

		b.WriteString(`<button type="submit">Save</button>` + "\n")
		b.WriteString("</form>\n")
	}))
}

// attachmentEditor is the upload widget. The file input binds the selection
// into signals as base64 and uploads as soon as files are picked; the
// action stores each file via the backend and patches the list below.
func attachmentEditor(post *domain.Post, b *strings.Builder) {
	b.WriteString(`<div class="attachments" data-signals="{files: [], filesMimes: [], filesNames: [], uploading: false}">` + "\n")
	b.WriteString(`<input type="file" multiple data-bind-files data-on-change="@post('/actions/upload')">` + "\n")
	b.WriteString(`<button type="button" data-on-click="@post('/actions/upload')" ` +
		`data-indicator-uploading data-attr-disabled="$uploading">Upload</button>` + "\n")

	b.WriteString(`<ul id="attachment-list">` + "\n")
	for _, url := range attachmentURLs(post) {
		attachmentItem(url, b)
	}
	b.WriteString("</ul>\n</div>\n")
}

func attachmentItem(url string, b *strings.Builder) {
	fmt.Fprintf(b, `<li><a href="%s">%s</a><input type="hidden" name="attachments" value="%s"></li>`+"\n",
		esc(url), esc(url), esc(url))
}

// AttachmentItemFragment appends one uploaded file to the editor's list.
func AttachmentItemFragment(url string) templ.Component {
	return component(func(b *strings.Builder) {
		attachmentItem(url, b)
	})
}

// attachmentURLs decodes the backend's JSON-encoded attachment array;
// malformed payloads degrade to no attachments.
func attachmentURLs(post *domain.Post) []string {
	if post == nil || post.Attachments == "" {
		return nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(post.Attachments), &urls); err != nil {
		return nil
	}
	return urls
}

func formError(msg string, b *strings.Builder) {
	if msg == "" {
		return
	}
	fmt.Fprintf(b, `<p class="form-error">%s</p>`+"\n", esc(msg))
}
