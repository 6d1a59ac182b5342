package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/aibbs/aibbs-web/internal/api"
	"github.com/aibbs/aibbs-web/internal/domain"
)

func newClient(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.New(srv.URL, 5*time.Second)
}

func TestListPosts_WrappedEnvelope(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/posts" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("page_size") != "10" {
			t.Errorf("unexpected paging params: %v", q)
		}
		if q.Get("search") != "golang" || q.Get("category") != "Tech" {
			t.Errorf("unexpected filter params: %v", q)
		}
		w.Write([]byte(`{"code":0,"message":"success","data":{
			"items":[{"id":1,"title":"hello","content":"world","category":"Tech"}],
			"pagination":{"page":2,"page_size":10,"total":11,"total_pages":2}}}`))
	})

	list, err := client.ListPosts(context.Background(), api.ListQuery{Page: 2, PageSize: 10, Search: "golang", Category: "Tech"})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].Title != "hello" {
		t.Fatalf("unexpected items: %+v", list.Items)
	}
	want := domain.Pagination{Page: 2, PageSize: 10, Total: 11, TotalPages: 2}
	if diff := cmp.Diff(want, list.Pagination); diff != "" {
		t.Fatalf("pagination mismatch (-want +got):\n%s", diff)
	}
}

func TestListPosts_BarePayload(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"id":7,"title":"bare"}],"pagination":{"page":1,"total_pages":1}}`))
	})

	list, err := client.ListPosts(context.Background(), api.ListQuery{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].ID != 7 {
		t.Fatalf("unexpected items: %+v", list.Items)
	}
}

func TestGetPost_ShapeTolerance(t *testing.T) {
	shapes := map[string]string{
		"data.post": `{"code":0,"data":{"post":{"id":3,"title":"t","user_id":5}}}`,
		"post":      `{"post":{"id":3,"title":"t","user_id":5}}`,
		"data":      `{"code":0,"data":{"id":3,"title":"t","user_id":5}}`,
		"bare":      `{"id":3,"title":"t","user_id":5}`,
	}
	for name, body := range shapes {
		t.Run(name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			post, err := client.GetPost(context.Background(), 3)
			if err != nil {
				t.Fatalf("GetPost: %v", err)
			}
			if post.ID != 3 || post.Title != "t" || post.UserID != 5 {
				t.Fatalf("unexpected post: %+v", post)
			}
		})
	}
}

func TestApplicationErrorInside2xx(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":40001,"message":"title required"}`))
	})

	err := client.CreatePost(context.Background(), "tok", api.PostInput{})
	if err == nil {
		t.Fatal("expected error for non-zero code")
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %T", err)
	}
	if apiErr.Code != 40001 || apiErr.Message != "title required" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestNon2xxMapsToSentinels(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusForbidden, domain.ErrForbidden},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusTooManyRequests, domain.ErrRateLimited},
	}
	for _, tc := range cases {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(`{"code":40100,"message":"nope"}`))
		})
		_, err := client.GetPost(context.Background(), 1)
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: expected errors.Is(err, %v), got %v", tc.status, tc.want, err)
		}
	}
}

func TestBearerHeaderSent(t *testing.T) {
	var gotAuth string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"code":0,"data":{"comment":{"id":1,"content":"hi"}}}`))
	})

	if _, err := client.CreateComment(context.Background(), "secret-token", 1, "hi"); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestNoBearerHeaderWhenAnonymous(t *testing.T) {
	var gotAuth string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"items":[],"pagination":{}}`))
	})

	if _, err := client.ListPosts(context.Background(), api.ListQuery{Page: 1, PageSize: 10}); err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestPostStats_AlternateFieldNames(t *testing.T) {
	cases := map[string]string{
		"canonical": `{"code":0,"data":{"comments_count":4,"pv":9}}`,
		"drifted":   `{"reply_count":4,"view_count":9}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			stats, err := client.PostStats(context.Background(), 1)
			if err != nil {
				t.Fatalf("PostStats: %v", err)
			}
			if stats.Comments != 4 || stats.Views != 9 {
				t.Fatalf("unexpected stats: %+v", stats)
			}
		})
	}
}

func TestLogin_MissingTokenIsError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"data":{"user":{"id":1,"username":"a"}}}`))
	})

	if _, err := client.Login(context.Background(), "a", "b"); err == nil {
		t.Fatal("expected error when token missing from login payload")
	}
}

func TestLogin_Success(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"data":{"token":"tok123","user":{"id":1,"username":"alice","is_admin":true}}}`))
	})

	res, err := client.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token != "tok123" || res.User.Username != "alice" || !res.User.IsAdmin {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestUpload(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if header.Filename != "pic.png" {
			t.Errorf("filename = %q", header.Filename)
		}
		w.Write([]byte(`{"code":0,"data":{"url":"/static/uploads/2026/08/29/pic.png"}}`))
	})

	url, err := client.Upload(context.Background(), "tok", "pic.png", strings.NewReader("binary"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "/static/uploads/2026/08/29/pic.png" {
		t.Fatalf("url = %q", url)
	}
}

func TestMe_Unauthorized(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":40102,"message":"invalid token"}`))
	})

	_, err := client.Me(context.Background(), "stale")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
