package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/me/blogfront/pkg/model"
)

// startTestAPI starts a fake blog API. Users named "expired" get a token the
// API later rejects.
func startTestAPI(t *testing.T) string {
	t.Helper()
	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || auth == "Bearer tok-expired" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
				return
			}
			h(w, r)
		}
	}

	mux.HandleFunc("POST /api/auth/signin", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Username, Password string }
		json.NewDecoder(r.Body).Decode(&in)
		if in.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"accessToken": "tok-" + in.Username,
			"id":          "u-" + in.Username,
			"username":    in.Username,
			"email":       in.Username + "@example.com",
			"roles":       []string{"ROLE_ADMIN"},
		})
	})
	mux.HandleFunc("GET /api/posts", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, model.Page[model.Post]{
			Content:       []model.Post{{ID: "p1", Title: "Hello", Published: true}, {ID: "p2", Title: "Draft"}},
			TotalElements: 2, TotalPages: 1,
		})
	}))
	mux.HandleFunc("GET /api/posts/public", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, model.Page[model.Post]{
			Content:       []model.Post{{ID: "p1", Title: "Hello", Published: true}},
			TotalElements: 11, TotalPages: 2,
		})
	})
	mux.HandleFunc("PUT /api/posts/{id}/publish", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, model.Post{ID: r.PathValue("id"), Published: true})
	}))
	mux.HandleFunc("DELETE /api/posts/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	mux.HandleFunc("GET /api/auth/users", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "u-1", "username": "alice", "email": "alice@example.com", "roles": []string{"ROLE_ADMIN"}},
		})
	}))

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts.URL
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

// cliEnv returns the common flags for a test: fake API and a private session dir.
func cliEnv(t *testing.T) []string {
	return []string{"--server", startTestAPI(t), "--session-dir", t.TempDir(), "--log-level", "error"}
}

func TestLoginWhoamiLogout(t *testing.T) {
	env := cliEnv(t)

	out, err := runCLI(t, "", append(env, "login", "-u", "alice", "-p", "secret")...)
	if err != nil {
		t.Fatalf("login: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Logged in as alice (ADMIN)") {
		t.Errorf("login output = %q", out)
	}

	// A new process-equivalent command rehydrates the saved session.
	out, err = runCLI(t, "", append(env, "whoami")...)
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "alice@example.com") || !strings.Contains(out, "Profile:  default") {
		t.Errorf("whoami output = %q", out)
	}

	if _, err := runCLI(t, "", append(env, "logout")...); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := runCLI(t, "", append(env, "whoami")...); err == nil {
		t.Error("whoami succeeded after logout")
	}
}

func TestLoginPrompts(t *testing.T) {
	env := cliEnv(t)

	out, err := runCLI(t, "alice\nsecret\n", append(env, "login")...)
	if err != nil {
		t.Fatalf("login: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Username: ") || !strings.Contains(out, "Logged in as alice") {
		t.Errorf("output = %q", out)
	}
}

func TestLoginBadPassword(t *testing.T) {
	env := cliEnv(t)

	if _, err := runCLI(t, "", append(env, "login", "-u", "alice", "-p", "nope")...); err == nil {
		t.Fatal("login with a bad password succeeded")
	}
	if _, err := runCLI(t, "", append(env, "whoami")...); err == nil {
		t.Error("failed login left a session behind")
	}
}

func TestProfilesAreIndependent(t *testing.T) {
	env := cliEnv(t)

	if _, err := runCLI(t, "", append(env, "--profile", "work", "login", "-u", "alice", "-p", "secret")...); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := runCLI(t, "", append(env, "whoami")...); err == nil {
		t.Error("default profile sees the work session")
	}
	if _, err := runCLI(t, "", append(env, "--profile", "work", "whoami")...); err != nil {
		t.Errorf("work profile whoami: %v", err)
	}
}

func TestPostsList(t *testing.T) {
	env := cliEnv(t)

	if _, err := runCLI(t, "", append(env, "posts", "list")...); err == nil {
		t.Fatal("posts list without login succeeded")
	}

	if _, err := runCLI(t, "", append(env, "login", "-u", "alice", "-p", "secret")...); err != nil {
		t.Fatalf("login: %v", err)
	}
	out, err := runCLI(t, "", append(env, "posts", "list")...)
	if err != nil {
		t.Fatalf("posts list: %v", err)
	}
	for _, want := range []string{"p1", "published", "p2", "draft"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestPostsListPublishedNeedsNoLogin(t *testing.T) {
	env := cliEnv(t)

	out, err := runCLI(t, "", append(env, "posts", "list", "--published")...)
	if err != nil {
		t.Fatalf("posts list --published: %v", err)
	}
	if !strings.Contains(out, "Hello") || !strings.Contains(out, "--page 1") {
		t.Errorf("output = %q", out)
	}
}

func TestPostsPublishAndDelete(t *testing.T) {
	env := cliEnv(t)
	if _, err := runCLI(t, "", append(env, "login", "-u", "alice", "-p", "secret")...); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, err := runCLI(t, "", append(env, "posts", "publish", "p2")...)
	if err != nil || !strings.Contains(out, "Published p2") {
		t.Errorf("publish: %v %q", err, out)
	}
	out, err = runCLI(t, "", append(env, "posts", "delete", "p2")...)
	if err != nil || !strings.Contains(out, "Deleted p2") {
		t.Errorf("delete: %v %q", err, out)
	}
	if _, err := runCLI(t, "", append(env, "posts", "delete")...); err == nil {
		t.Error("delete without an id succeeded")
	}
}

func TestRejectedCredentialRemovesSession(t *testing.T) {
	env := cliEnv(t)
	dir := env[3]

	if _, err := runCLI(t, "", append(env, "login", "-u", "expired", "-p", "secret")...); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "default.json")); err != nil {
		t.Fatalf("session file not written: %v", err)
	}

	_, err := runCLI(t, "", append(env, "posts", "list")...)
	if err == nil || !strings.Contains(err.Error(), "session expired") {
		t.Fatalf("posts list error = %v, want session expired", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "default.json")); !os.IsNotExist(err) {
		t.Errorf("session file still present: %v", err)
	}
}

func TestUsersList(t *testing.T) {
	env := cliEnv(t)
	if _, err := runCLI(t, "", append(env, "login", "-u", "alice", "-p", "secret")...); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, err := runCLI(t, "", append(env, "users", "list")...)
	if err != nil {
		t.Fatalf("users list: %v", err)
	}
	if !strings.Contains(out, "alice@example.com") || !strings.Contains(out, "ADMIN") {
		t.Errorf("output = %q", out)
	}
}

func TestShorten(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"fits", 40, "fits"},
		{strings.Repeat("x", 45), 40, strings.Repeat("x", 37) + "..."},
		{strings.Repeat("ü", 45), 40, strings.Repeat("ü", 37) + "..."},
		{strings.Repeat("ü", 40), 40, strings.Repeat("ü", 40)},
	}
	for _, tt := range tests {
		got := shorten(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("shorten(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("shorten(%q) produced invalid UTF-8", tt.in)
		}
	}
}
