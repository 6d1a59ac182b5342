package view

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/aibbs/aibbs-web/internal/domain"
)

// LoginPage renders the login form. errMsg is shown inline after a failed
// attempt; the submitted username is echoed back so only the password needs
// retyping.
func LoginPage(f Frame, username, errMsg string, captcha *domain.Captcha) templ.Component {
	return component(layout(f, "Log in", func(b *strings.Builder) {
		b.WriteString(`<h1>Log in</h1>` + "\n")
		formError(errMsg, b)

		b.WriteString(`<form class="auth-form" method="post" action="/login">` + "\n")
		fmt.Fprintf(b, `<label>Username<input name="username" required value="%s"></label>`+"\n", esc(username))
		b.WriteString(`<label>Password<input type="password" name="password" required></label>` + "\n")
		captchaBox(captcha, b)
		b.WriteString(`<button type="submit">Log in</button>` + "\n")
		b.WriteString("</form>\n")
		b.WriteString(`<p>No account yet? <a href="/register">Register</a></p>` + "\n")
	}))
}

// RegisterForm carries the echoed-back state of a failed registration.
type RegisterForm struct {
	Username string
	Email    string
	Error    string
}

// RegisterPage renders the registration form, including the email
// verification code flow and the captcha when the backend requires one.
func RegisterPage(f Frame, form RegisterForm, captcha *domain.Captcha) templ.Component {
	return component(layout(f, "Register", func(b *strings.Builder) {
		b.WriteString(`<h1>Register</h1>` + "\n")
		formError(form.Error, b)

		b.WriteString(`<form class="auth-form" method="post" action="/register" data-signals="{email: '', sending: false}">` + "\n")
		fmt.Fprintf(b, `<label>Username<input name="username" required pattern="[\w-]{2,15}" `+
			`title="2-15 letters, digits, underscores, or dashes" value="%s"></label>`+"\n", esc(form.Username))
		fmt.Fprintf(b, `<label>Email<input type="email" name="email" data-bind-email required value="%s"></label>`+"\n", esc(form.Email))

		// The code is mailed on demand; the button reads $email from signals.
		b.WriteString(`<label>Verification code<input name="code" required>` +
			`<button type="button" data-on-click="@post('/actions/email-code')" ` +
			`data-indicator-sending data-attr-disabled="$sending">Send code</button></label>` + "\n")

		b.WriteString(`<label>Password<input type="password" name="password" required minlength="6" maxlength="18"></label>` + "\n")
		b.WriteString(`<label>Confirm password<input type="password" name="confirm" required></label>` + "\n")
		captchaBox(captcha, b)
		b.WriteString(`<button type="submit">Create account</button>` + "\n")
		b.WriteString("</form>\n")
		b.WriteString(`<p>Already registered? <a href="/login">Log in</a></p>` + "\n")
	}))
}

// captchaBox renders the graphical challenge. A nil captcha means the
// backend has it disabled and the box renders empty, keeping the patch
// target around in case it gets enabled.
func captchaBox(captcha *domain.Captcha, b *strings.Builder) {
	b.WriteString(`<div id="captcha-box">`)
	if captcha != nil {
		fmt.Fprintf(b, `<img src="%s" alt="captcha">`, esc(captcha.Image))
		fmt.Fprintf(b, `<input type="hidden" name="captcha_id" data-bind-captcha_id value="%s">`, esc(captcha.ID))
		b.WriteString(`<input name="captcha_answer" data-bind-captcha_answer placeholder="Enter the code" autocomplete="off">`)
		b.WriteString(`<button type="button" data-on-click="@get('/actions/captcha')">Refresh</button>`)
	}
	b.WriteString("</div>\n")
}

// CaptchaBoxFragment refreshes the challenge in place over SSE.
func CaptchaBoxFragment(captcha *domain.Captcha) templ.Component {
	return component(func(b *strings.Builder) {
		captchaBox(captcha, b)
	})
}
