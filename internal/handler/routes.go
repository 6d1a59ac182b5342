package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aibbs/aibbs-web/internal/api"
	"github.com/aibbs/aibbs-web/internal/config"
	"github.com/aibbs/aibbs-web/internal/markdown"
	"github.com/aibbs/aibbs-web/internal/service"
)

// Login and register share one bucket: five quick attempts, then one every
// five seconds.
const (
	authRate  = 0.2
	authBurst = 5
)

// New wires every route into the site's handler.
func New(cfg *config.Config, backend *api.Client, sessions *service.SessionService, md *markdown.Renderer) http.Handler {
	pages := NewPageHandler(backend, md, cfg.Site)
	auth := NewAuthHandler(sessions, backend, service.NewTokenBucket(authRate, authBurst), cfg.Site, cfg.CookieSecure)
	editor := NewEditorHandler(backend, cfg.Site)
	actions := NewActionHandler(backend)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(OptionalAuth(sessions, cfg.CookieSecure))

	r.Get("/healthz", HandleHealthz)
	r.Handle("/static/*", StaticHandler())

	// Bookmarkable pages.
	r.Get("/", pages.HandleList)
	r.Get("/index.html", pages.HandleList)
	r.Get("/categories/{slug}", pages.HandleList)
	r.Get("/post-{id}-{page}", pages.HandleDetail)
	r.Get("/personal/{username}", pages.HandleProfile)
	r.Get("/users", pages.HandleUsers)

	// Auth flows.
	r.Get("/login", auth.HandleLoginPage)
	r.Post("/login", auth.HandleLogin)
	r.Get("/register", auth.HandleRegisterPage)
	r.Post("/register", auth.HandleRegister)
	r.Post("/logout", auth.HandleLogout)

	// Pages that need a logged-in viewer.
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth)
		r.Get("/my-posts", pages.HandleMyPosts)
		r.Get("/publish", editor.HandlePublishPage)
		r.Post("/publish", editor.HandlePublish)
		r.Get("/edit/{id}", editor.HandleEditPage)
		r.Post("/edit/{id}", editor.HandleEdit)
		r.Post("/posts/{id}/delete", editor.HandleDelete)
		r.Post("/profile/signature", auth.HandleSignature)
	})

	// Datastar fragment endpoints.
	r.Get("/fragments/post-stats/{id}", actions.HandlePostStats)
	r.Post("/actions/posts/{id}/comments", actions.HandleCommentCreate)
	r.Delete("/actions/comments/{id}", actions.HandleCommentDelete)
	r.Post("/actions/signin", actions.HandleSignIn)
	r.Get("/actions/captcha", actions.HandleCaptcha)
	r.Post("/actions/email-code", actions.HandleEmailCode)
	r.Post("/actions/upload", actions.HandleUpload)

	// Anything outside the URL grammar falls back to the front page.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}
