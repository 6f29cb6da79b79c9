package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/me/blogfront/internal/session"
	"github.com/me/blogfront/internal/store"
	"github.com/me/blogfront/pkg/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeSession counts Expire calls.
type fakeSession struct {
	mu      sync.Mutex
	token   string
	expired int
}

func (f *fakeSession) Credential(ctx context.Context) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeSession) Expire(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired++
	f.token = ""
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, testLogger())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestBearerHeaderAttached(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, model.Page[model.Post]{})
	})

	ctx := WithSession(context.Background(), &fakeSession{token: "T1"})
	if _, err := c.Posts(ctx, 0, 10); err != nil {
		t.Fatalf("Posts: %v", err)
	}
	if got != "Bearer T1" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer T1")
	}
}

func TestNoCredentialSendsBare(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
	}{
		{"no session", context.Background()},
		{"session without token", WithSession(context.Background(), &fakeSession{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			var seen bool
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				got, seen = r.Header.Get("Authorization"), true
				writeJSON(w, http.StatusOK, model.Page[model.Post]{})
			})
			if _, err := c.PublishedPosts(tt.ctx, 0, 10); err != nil {
				t.Fatalf("PublishedPosts: %v", err)
			}
			if !seen || got != "" {
				t.Errorf("Authorization = %q, want none", got)
			}
		})
	}
}

func TestUnauthorizedExpiresOnce(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Full authentication is required"})
	})
	sess := &fakeSession{token: "stale"}
	ctx := WithSession(context.Background(), sess)

	_, err := c.Posts(ctx, 0, 10)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
	if sess.expired != 1 {
		t.Errorf("Expire called %d times, want 1", sess.expired)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Full authentication is required" {
		t.Errorf("err = %#v", err)
	}
}

func TestForbiddenLeavesSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Access is denied"})
	})
	sess := &fakeSession{token: "T1"}
	ctx := WithSession(context.Background(), sess)

	_, err := c.Users(ctx)
	if errors.Is(err, ErrSessionExpired) {
		t.Error("403 must not be reported as an expired session")
	}
	if !IsStatus(err, http.StatusForbidden) {
		t.Errorf("err = %v, want 403 APIError", err)
	}
	if sess.expired != 0 || sess.token != "T1" {
		t.Errorf("session changed on 403: %+v", sess)
	}
}

func TestUnauthorizedClearsRealSession(t *testing.T) {
	backend, err := store.NewSQLiteStore(":memory:", testLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := backend.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	defer backend.Close()

	s := session.NewManager(backend, testLogger()).Open("ctx_1")
	user := model.User{ID: "u1", Username: "alice", Roles: []model.Role{model.RoleAdmin}}
	if err := s.Login(context.Background(), user, "revoked"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	ctx := WithSession(context.Background(), s)
	if _, err := c.Users(ctx); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("err = %v", err)
	}

	if s.State().IsAuthenticated {
		t.Error("in-memory session should be cleared")
	}
	if rec, _ := backend.GetSession(context.Background(), "ctx_1"); rec != nil {
		t.Error("persisted record should be deleted")
	}
}

func TestSignIn(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/signin" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var in LoginRequest
		json.NewDecoder(r.Body).Decode(&in)
		if in.Username != "alice" || in.Password != "secret" {
			t.Errorf("payload = %+v", in)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"accessToken": "T1",
			"tokenType":   "Bearer",
			"id":          "u1",
			"username":    "alice",
			"email":       "alice@example.com",
			"roles":       []string{"ROLE_ADMIN", "ROLE_EDITOR"},
		})
	})

	resp, err := c.SignIn(context.Background(), LoginRequest{Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if resp.Credential() != "T1" {
		t.Errorf("Credential = %q", resp.Credential())
	}
	u := resp.User()
	if !u.IsAdmin() || !u.IsEditor() || !u.Valid() {
		t.Errorf("user = %+v", u)
	}
}

func TestSignInValidation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid payload must not be sent")
	})
	_, err := c.SignIn(context.Background(), LoginRequest{Username: "alice"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if !strings.Contains(ve.Error(), "password is required") {
		t.Errorf("message = %q", ve.Error())
	}
}

func TestSignUpValidation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid payload must not be sent")
	})
	err := c.SignUp(context.Background(), SignupRequest{
		Username: "al",
		Email:    "not-an-email",
		Password: "123",
		Roles:    []string{"root"},
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(ve.Problems) != 4 {
		t.Errorf("problems = %v, want 4", ve.Problems)
	}
}

func TestPageDecoding(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "go" || r.URL.Query().Get("page") != "1" || r.URL.Query().Get("size") != "5" {
			t.Errorf("query = %v", r.URL.Query())
		}
		w.Write([]byte(`{"content":[{"id":"p1","title":"Hello","slug":"hello","published":true,"tags":["go"]}],
			"totalElements":6,"totalPages":2,"number":1,"size":5,"pageable":{"pageNumber":1,"pageSize":5}}`))
	})

	page, err := c.SearchPublishedPosts(context.Background(), "go", 1, 5)
	if err != nil {
		t.Fatalf("SearchPublishedPosts: %v", err)
	}
	if len(page.Content) != 1 || page.Content[0].Slug != "hello" {
		t.Errorf("content = %+v", page.Content)
	}
	if page.HasNext() || !page.HasPrev() {
		t.Errorf("HasNext=%v HasPrev=%v", page.HasNext(), page.HasPrev())
	}
}

func TestAllPostsWalksPages(t *testing.T) {
	var pages []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := r.URL.Query().Get("page")
		pages = append(pages, n)
		id := "p" + n
		writeJSON(w, http.StatusOK, map[string]any{
			"content":       []map[string]any{{"id": id, "title": id}},
			"totalElements": 3,
			"totalPages":    3,
			"number":        len(pages) - 1,
			"size":          1,
		})
	})

	ctx := WithSession(context.Background(), &fakeSession{token: "tok"})
	posts, err := c.AllPosts(ctx)
	if err != nil {
		t.Fatalf("AllPosts: %v", err)
	}
	if len(posts) != 3 || posts[0].ID != "p0" || posts[2].ID != "p2" {
		t.Errorf("posts = %+v", posts)
	}
	if strings.Join(pages, ",") != "0,1,2" {
		t.Errorf("requested pages %v, want 0,1,2", pages)
	}
}

func TestCreatePostPublishFailure(t *testing.T) {
	var posted PostInput
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/posts":
			json.NewDecoder(r.Body).Decode(&posted)
			writeJSON(w, http.StatusOK, model.Post{ID: "p1", Title: posted.Title})
		case r.Method == http.MethodPut && r.URL.Path == "/api/posts/p1/publish":
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})

	post, err := c.CreatePost(context.Background(), PostInput{Title: "T", Content: "C", Published: true})
	var pe *PublishError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want PublishError", err)
	}
	if pe.Draft.ID != "p1" || post == nil || post.ID != "p1" {
		t.Errorf("draft = %+v, post = %+v", pe.Draft, post)
	}
	if posted.Published {
		t.Error("the create step must save a draft")
	}
	if !IsStatus(err, http.StatusInternalServerError) {
		t.Errorf("PublishError should unwrap to the API error, got %v", err)
	}
}

func TestCreatePostPublishes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/posts":
			writeJSON(w, http.StatusOK, model.Post{ID: "p1"})
		case "/api/posts/p1/publish":
			writeJSON(w, http.StatusOK, model.Post{ID: "p1", Published: true})
		}
	})

	post, err := c.CreatePost(context.Background(), PostInput{Title: "T", Content: "C", Published: true})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if !post.Published {
		t.Error("post should be published")
	}
}

func TestDashboardStats(t *testing.T) {
	tests := []struct {
		name      string
		userCount func(w http.ResponseWriter)
		wantUsers int
	}{
		{"admin", func(w http.ResponseWriter) { writeJSON(w, http.StatusOK, map[string]int{"count": 7}) }, 7},
		{"editor", func(w http.ResponseWriter) { w.WriteHeader(http.StatusForbidden) }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/api/posts":
					writeJSON(w, http.StatusOK, model.Page[model.Post]{TotalElements: 10})
				case "/api/posts/public":
					writeJSON(w, http.StatusOK, model.Page[model.Post]{TotalElements: 4})
				case "/api/auth/users/count":
					tt.userCount(w)
				}
			})
			stats, err := c.DashboardStats(context.Background())
			if err != nil {
				t.Fatalf("DashboardStats: %v", err)
			}
			want := model.DashboardStats{TotalPosts: 10, PublishedPosts: 4, DraftPosts: 6, TotalUsers: tt.wantUsers}
			if *stats != want {
				t.Errorf("stats = %+v, want %+v", *stats, want)
			}
		})
	}
}

func TestUpdateUserRoleBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/auth/users/u2/role" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["role"] != "editor" {
			t.Errorf("body = %v", body)
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "User role updated successfully!"})
	})
	if err := c.UpdateUserRole(context.Background(), "u2", model.RoleEditor); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}
}

func TestUsersDecodesRoleEntities(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"u1","username":"alice","email":"a@x","roles":[{"id":"r1","name":"ROLE_ADMIN"}]},
			{"id":"u2","username":"bob","email":"b@x","roles":["ROLE_EDITOR"]}]`))
	})
	users, err := c.Users(context.Background())
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(users) != 2 || !users[0].IsAdmin() || !users[1].IsEditor() {
		t.Errorf("users = %+v", users)
	}
}
