package guard

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/me/blogfront/internal/session"
	"github.com/me/blogfront/internal/store"
	"github.com/me/blogfront/pkg/model"
)

var ctxEditor = "ctx_" + strings.Repeat("ed", 24)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupManager(t *testing.T) (*session.Manager, store.Store) {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:", testLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return session.NewManager(st, testLogger()), st
}

func loginAs(t *testing.T, m *session.Manager, id string, roles ...model.Role) *session.Store {
	t.Helper()
	s := m.Open(id)
	user := model.User{ID: "u-" + id, Username: "user-" + id, Roles: roles}
	if err := s.Login(context.Background(), user, "tok-"+id); err != nil {
		t.Fatalf("Login: %v", err)
	}
	return s
}

func authed(roles ...model.Role) session.State {
	m := &model.User{ID: "u1", Username: "u", Roles: roles}
	return session.State{User: m, Token: "t", IsAuthenticated: true}
}

func TestEvaluate(t *testing.T) {
	nav := DefaultRoutes()
	panel := Roles(model.RoleAdmin, model.RoleEditor)

	tests := []struct {
		name     string
		state    session.State
		req      Requirement
		path     string
		wantKind Kind
		wantTo   string
	}{
		{"no session any requirement", session.State{}, Requirement{}, "/admin", Unauthenticated, "/login"},
		{"no session admin requirement", session.State{}, Roles(model.RoleAdmin), "/admin", Unauthenticated, "/login"},
		{"editor in panel", authed(model.RoleEditor), panel, "/admin/dashboard", Authorized, ""},
		{"admin in panel", authed(model.RoleAdmin), panel, "/admin/dashboard", Authorized, ""},
		{"any signed-in user", authed(model.RoleUser), Requirement{}, "/account", Authorized, ""},
		{"editor needs admin", authed(model.RoleEditor), Roles(model.RoleAdmin), "/admin/users", RoleDenied, "/editor"},
		{"admin needs editor", authed(model.RoleAdmin), Roles(model.RoleEditor), "/editor", RoleDenied, "/admin/dashboard"},
		{"reader needs panel", authed(model.RoleUser), panel, "/admin", RoleDenied, "/"},
		{"home is the denied path", authed(model.RoleEditor), Roles(model.RoleAdmin), "/editor", RoleDenied, "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.state, tt.req, nav, tt.path)
			if d.Kind != tt.wantKind {
				t.Fatalf("Kind = %v, want %v", d.Kind, tt.wantKind)
			}
			if d.Redirect != tt.wantTo {
				t.Errorf("Redirect = %q, want %q", d.Redirect, tt.wantTo)
			}
			if tt.wantKind == RoleDenied && d.Notice != DeniedNotice {
				t.Errorf("Notice = %q", d.Notice)
			}
			if tt.wantKind == Unauthenticated && d.Notice != "" {
				t.Errorf("unauthenticated visitors must not see the denied notice, got %q", d.Notice)
			}
		})
	}
}

func TestDecisionLocation(t *testing.T) {
	d := Decision{Kind: RoleDenied, Redirect: "/editor", Notice: DeniedNotice}
	want := "/editor?notice=You+do+not+have+permission+to+access+this+area."
	if got := d.Location(); got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}
	if got := (Decision{Kind: Unauthenticated, Redirect: "/login"}).Location(); got != "/login" {
		t.Errorf("Location = %q", got)
	}
}

func TestResolveWithoutContext(t *testing.T) {
	m, _ := setupManager(t)
	g := New(m, testLogger())
	d := g.Resolve(context.Background(), nil, Roles(model.RoleAdmin), "/admin")
	if d.Kind != Unauthenticated || d.Redirect != "/login" {
		t.Errorf("decision = %+v", d)
	}
}

func TestResolveRehydrates(t *testing.T) {
	m, backend := setupManager(t)
	loginAs(t, m, "ctx_1", model.RoleEditor)

	// A second manager on the same backend starts with nothing in memory.
	fresh := session.NewManager(backend, testLogger())
	g := New(fresh, testLogger())
	d := g.Resolve(context.Background(), fresh.Open("ctx_1"), Roles(model.RoleAdmin, model.RoleEditor), "/admin")
	if !d.Allowed() {
		t.Errorf("decision = %+v, want authorized", d)
	}
}

func protected(t *testing.T, g *Guard, area string, roles ...model.Role) http.Handler {
	t.Helper()
	return g.Require(area, roles...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			t.Error("session missing from request context")
		}
		w.Write([]byte("protected content"))
	}))
}

func withCookie(r *http.Request, id string) *http.Request {
	r.AddCookie(&http.Cookie{Name: session.CookieName, Value: id})
	return r
}

func TestRequireEditorInPanel(t *testing.T) {
	m, _ := setupManager(t)
	loginAs(t, m, ctxEditor, model.RoleEditor)
	h := protected(t, New(m, testLogger()), "admin", model.RoleAdmin, model.RoleEditor)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withCookie(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil), ctxEditor))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "protected content" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRequireNoSession(t *testing.T) {
	m, _ := setupManager(t)
	h := protected(t, New(m, testLogger()), "admin", model.RoleAdmin, model.RoleEditor)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("protected content")) {
		t.Error("protected content rendered without a session")
	}
}

func TestRequireUnknownContext(t *testing.T) {
	m, _ := setupManager(t)
	h := protected(t, New(m, testLogger()), "admin", model.RoleAdmin)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withCookie(httptest.NewRequest(http.MethodGet, "/admin", nil), "ctx_stale"))

	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestStoreForRejectsMalformedID(t *testing.T) {
	m, _ := setupManager(t)
	g := New(m, testLogger())

	for _, id := range []string{"", "junk", "ctx_stale", "ctx_" + strings.Repeat("g", 48)} {
		if s := g.StoreFor(withCookie(httptest.NewRequest(http.MethodGet, "/", nil), id)); s != nil {
			t.Errorf("StoreFor(%q) returned a store", id)
		}
	}
	if s := g.StoreFor(withCookie(httptest.NewRequest(http.MethodGet, "/", nil), ctxEditor)); s == nil {
		t.Error("StoreFor rejected a well-formed id")
	}
}

func TestRequireRoleDeniedHTMX(t *testing.T) {
	m, _ := setupManager(t)
	s := loginAs(t, m, ctxEditor, model.RoleEditor)
	h := protected(t, New(m, testLogger()), "users", model.RoleAdmin)

	req := withCookie(httptest.NewRequest(http.MethodGet, "/admin/users", nil), ctxEditor)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	want := Decision{Kind: RoleDenied, Redirect: "/editor", Notice: DeniedNotice}.Location()
	if got := rec.Header().Get("HX-Redirect"); got != want {
		t.Errorf("HX-Redirect = %q, want %q", got, want)
	}
	if !s.State().IsAuthenticated {
		t.Error("guard must not change the session")
	}
}

func TestWatchEmitsOnLogout(t *testing.T) {
	m, _ := setupManager(t)
	s := loginAs(t, m, "ctx_1", model.RoleAdmin)
	g := New(m, testLogger(), WithRecheckInterval(0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	decisions := g.Watch(ctx, s, Roles(model.RoleAdmin), "/admin/dashboard")

	first := recv(t, decisions)
	if !first.Allowed() {
		t.Fatalf("first decision = %+v, want authorized", first)
	}

	if err := s.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	next := recv(t, decisions)
	if next.Kind != Unauthenticated || next.Redirect != "/login" {
		t.Errorf("decision after logout = %+v", next)
	}
}

func TestWatchRecheckSeesOtherInstance(t *testing.T) {
	m, backend := setupManager(t)
	s := loginAs(t, m, "ctx_1", model.RoleAdmin)
	g := New(m, testLogger(), WithRecheckInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	decisions := g.Watch(ctx, s, Roles(model.RoleAdmin), "/admin/dashboard")
	if d := recv(t, decisions); !d.Allowed() {
		t.Fatalf("first decision = %+v", d)
	}

	// Another instance logs the same context out behind this store's back.
	other := session.NewManager(backend, testLogger()).Open("ctx_1")
	if err := other.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if d := recv(t, decisions); d.Kind != Unauthenticated {
		t.Errorf("decision = %+v, want unauthenticated", d)
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	m, _ := setupManager(t)
	s := loginAs(t, m, "ctx_1", model.RoleAdmin)
	g := New(m, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	decisions := g.Watch(ctx, s, Roles(model.RoleAdmin), "/admin")
	recv(t, decisions)
	cancel()

	select {
	case _, ok := <-decisions:
		if ok {
			// A buffered decision may still be pending; the next read must see the close.
			if _, ok := <-decisions; ok {
				t.Error("channel should close after cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func recv(t *testing.T, ch <-chan Decision) Decision {
	t.Helper()
	select {
	case d, ok := <-ch:
		if !ok {
			t.Fatal("decision channel closed")
		}
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for decision")
	}
	return Decision{}
}
