package handler

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/aibbs/aibbs-web/internal/api"
	"github.com/aibbs/aibbs-web/internal/config"
	"github.com/aibbs/aibbs-web/internal/domain"
	"github.com/aibbs/aibbs-web/internal/service"
	"github.com/aibbs/aibbs-web/internal/view"
)

// AuthHandler handles the login, registration, and logout flows, plus the
// profile signature form.
type AuthHandler struct {
	sessions *service.SessionService
	backend  *api.Client
	limiter  *service.TokenBucket
	site     config.Site
	secure   bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *service.SessionService, backend *api.Client, limiter *service.TokenBucket, site config.Site, secure bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, backend: backend, limiter: limiter, site: site, secure: secure}
}

// HandleLoginPage renders the login form. Logged-in visitors are bounced home.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	view.LoginPage(pageFrame(r, h.site), "", "", h.fetchCaptcha(r.Context())).Render(r.Context(), w)
}

// HandleLogin processes the login form.
// POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(clientIP(r)) {
		h.renderLogin(w, r, "", "Too many attempts. Wait a minute and try again.", http.StatusTooManyRequests)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	username := r.FormValue("username")

	session, err := h.sessions.Login(r.Context(), username, r.FormValue("password"))
	if err != nil {
		h.renderLogin(w, r, username, loginError(err), http.StatusUnprocessableEntity)
		return
	}

	h.issueCookie(w, session)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, username, errMsg string, status int) {
	w.WriteHeader(status)
	view.LoginPage(pageFrame(r, h.site), username, errMsg, h.fetchCaptcha(r.Context())).Render(r.Context(), w)
}

// HandleRegisterPage renders the registration form.
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	view.RegisterPage(pageFrame(r, h.site), view.RegisterForm{}, h.fetchCaptcha(r.Context())).Render(r.Context(), w)
}

// HandleRegister processes the registration form and logs the new account in.
// POST /register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(clientIP(r)) {
		h.renderRegister(w, r, view.RegisterForm{Error: "Too many attempts. Wait a minute and try again."}, http.StatusTooManyRequests)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	in := api.RegisterInput{
		Username:      r.FormValue("username"),
		Email:         r.FormValue("email"),
		Password:      r.FormValue("password"),
		Confirm:       r.FormValue("confirm"),
		Code:          r.FormValue("code"),
		CaptchaID:     r.FormValue("captcha_id"),
		CaptchaAnswer: r.FormValue("captcha_answer"),
	}

	session, err := h.sessions.Register(r.Context(), in)
	if err != nil {
		form := view.RegisterForm{Username: in.Username, Email: in.Email, Error: registerError(err)}
		h.renderRegister(w, r, form, http.StatusUnprocessableEntity)
		return
	}

	h.issueCookie(w, session)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, form view.RegisterForm, status int) {
	w.WriteHeader(status)
	view.RegisterPage(pageFrame(r, h.site), form, h.fetchCaptcha(r.Context())).Render(r.Context(), w)
}

// HandleLogout drops the session and clears the cookie.
// POST /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if session := SessionFromContext(r.Context()); session != nil {
		if err := h.sessions.Logout(r.Context(), session.ID); err != nil {
			slog.Error("logout", "error", err)
		}
	}
	clearSessionCookie(w, h.secure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleSignature updates the viewer's profile signature. Requires auth.
// POST /profile/signature
func (h *AuthHandler) HandleSignature(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.backend.UpdateProfile(r.Context(), Token(r.Context()), r.FormValue("signature")); err != nil {
		slog.Error("update signature", "error", err)
	}
	http.Redirect(w, r, "/personal/"+user.Username, http.StatusSeeOther)
}

func (h *AuthHandler) issueCookie(w http.ResponseWriter, session *domain.Session) {
	value, err := h.sessions.CookieValue(session)
	if err != nil {
		slog.Error("sign session cookie", "error", err)
		return
	}
	setSessionCookie(w, value, h.sessions.TTL(), h.secure)
}

// fetchCaptcha loads a challenge for the auth forms. A nil return means
// captcha is disabled or the backend is unreachable; the forms degrade to
// working without one.
func (h *AuthHandler) fetchCaptcha(ctx context.Context) *domain.Captcha {
	captcha, err := h.backend.Captcha(ctx)
	if err != nil {
		return nil
	}
	return captcha
}

func loginError(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "Invalid username or password."
	case errors.Is(err, domain.ErrInvalidInput):
		return err.Error()
	case errors.Is(err, domain.ErrRateLimited):
		return "Too many attempts. Wait a minute and try again."
	default:
		slog.Error("login", "error", err)
		return "Could not reach the forum backend. Try again in a moment."
	}
}

func registerError(err error) string {
	var apiErr *api.Error
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return err.Error()
	case errors.As(err, &apiErr) && apiErr.Message != "":
		// Backend validation messages (taken username, bad code) are meant
		// for the user.
		return apiErr.Message
	default:
		slog.Error("register", "error", err)
		return "Could not reach the forum backend. Try again in a moment."
	}
}

// clientIP keys the rate limiter. RealIP middleware has already rewritten
// RemoteAddr from the proxy headers when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
