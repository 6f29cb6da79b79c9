package ui

import (
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/me/blogfront/internal/apiclient"
	"github.com/me/blogfront/internal/guard"
	"github.com/me/blogfront/pkg/model"
)

const recentPostCount = 5

// panel describes one of the two content panels. Both manage the same posts;
// they differ in who may enter and where their pages live.
type panel struct {
	area     string
	heading  string
	home     string
	posts    string
	stats    string
	showUser bool
}

var (
	adminPanel = panel{
		area:     "admin",
		heading:  "Admin Dashboard",
		home:     "/admin/dashboard",
		posts:    "/admin/blogs",
		stats:    "/admin/dashboard/stats",
		showUser: true,
	}
	editorPanel = panel{
		area:    "editor",
		heading: "Editor Dashboard",
		home:    "/editor",
		posts:   "/editor/blogs",
		stats:   "/editor/stats",
	}
)

func panelFor(r *http.Request) panel {
	if strings.HasPrefix(r.URL.Path, "/editor") {
		return editorPanel
	}
	return adminPanel
}

// panelData starts the template data for a protected page; the page keeps a
// session event stream open for its area.
func (ui *UI) panelData(r *http.Request, title, area string) map[string]any {
	data := ui.pageData(r, title)
	data["EventsURL"] = eventsURL(area, r.URL.Path)
	return data
}

// HandleDashboard renders the panel dashboard with counters and recent posts.
func (ui *UI) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	p := panelFor(r)
	ctx := ui.apiContext(r)

	stats, err := ui.api.DashboardStats(ctx)
	if err != nil {
		ui.failAPI(w, r, "Failed to load dashboard", err)
		return
	}
	recent, err := ui.api.RecentPosts(ctx, recentPostCount)
	if err != nil {
		ui.failAPI(w, r, "Failed to load recent posts", err)
		return
	}

	data := ui.panelData(r, "Dashboard", p.area)
	data["Heading"] = p.heading
	data["Stats"] = stats
	data["StatsURL"] = p.stats
	data["ShowUsers"] = p.showUser && isAdmin(data)
	data["Base"] = p.posts
	data["Posts"] = recent
	ui.render(w, "panel/dashboard", data)
}

// HandleStats returns the dashboard counters as an htmx fragment.
func (ui *UI) HandleStats(w http.ResponseWriter, r *http.Request) {
	p := panelFor(r)

	stats, err := ui.api.DashboardStats(ui.apiContext(r))
	if err != nil {
		if errors.Is(err, apiclient.ErrSessionExpired) {
			ui.failAPI(w, r, "", err)
			return
		}
		ui.logger.Warn("refresh stats", "error", err)
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	data := ui.pageData(r, "Stats")
	ui.renderFragment(w, "stats", map[string]any{
		"Stats":     stats,
		"StatsURL":  p.stats,
		"ShowUsers": p.showUser && isAdmin(data),
	})
}

func isAdmin(data map[string]any) bool {
	u, ok := data["User"].(*model.User)
	return ok && u.IsAdmin()
}

// HandlePostList renders every post, drafts included. A search walks all posts
// and paginates the matches.
func (ui *UI) HandlePostList(w http.ResponseWriter, r *http.Request) {
	p := panelFor(r)
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	pageNum := pageParam(r)
	ctx := ui.apiContext(r)

	var (
		page *model.Page[model.Post]
		err  error
	)
	base := url.Values{}
	if q != "" {
		base.Set("q", q)
		var all []model.Post
		if all, err = ui.api.AllPosts(ctx); err == nil {
			page = paginate(matchPosts(all, q), pageNum, adminPageSize)
		}
	} else {
		page, err = ui.api.Posts(ctx, pageNum, adminPageSize)
	}
	if err != nil {
		ui.failAPI(w, r, "Failed to load posts", err)
		return
	}

	data := ui.panelData(r, "Posts", p.area)
	data["Posts"] = page.Content
	data["Query"] = q
	data["Base"] = p.posts
	data["Pagination"] = buildPagination(page, pageBase(p.posts, base))
	ui.render(w, "posts/list", data)
}

// matchPosts keeps the posts whose title, excerpt, content, tags or author
// contain q, ignoring case.
func matchPosts(posts []model.Post, q string) []model.Post {
	q = strings.ToLower(q)
	has := func(s string) bool { return strings.Contains(strings.ToLower(s), q) }

	out := []model.Post{}
	for _, post := range posts {
		if has(post.Title) || has(post.Excerpt) || has(post.Content) || has(post.Author) ||
			slices.ContainsFunc(post.Tags, has) {
			out = append(out, post)
		}
	}
	return out
}

// paginate cuts one page out of items.
func paginate[T any](items []T, number, size int) *model.Page[T] {
	total := len(items)
	start := min(number*size, total)
	end := min(start+size, total)
	return &model.Page[T]{
		Content:       items[start:end],
		TotalElements: total,
		TotalPages:    (total + size - 1) / size,
		Number:        number,
		Size:          size,
	}
}

// HandlePostNew renders an empty post form.
func (ui *UI) HandlePostNew(w http.ResponseWriter, r *http.Request) {
	p := panelFor(r)
	ui.renderPostForm(w, r, p, http.StatusOK, &model.Post{}, p.posts, "")
}

// HandlePostCreate saves a new post. A post that was saved but failed to
// publish opens in the editor with the error shown.
func (ui *UI) HandlePostCreate(w http.ResponseWriter, r *http.Request) {
	p := panelFor(r)
	if err := r.ParseForm(); err != nil {
		ui.renderStatus(w, r, http.StatusBadRequest, "Invalid form", err)
		return
	}

	in := postInputFromForm(r)
	post, err := ui.api.CreatePost(ui.apiContext(r), in)
	if err != nil {
		var verr *apiclient.ValidationError
		var perr *apiclient.PublishError
		switch {
		case errors.As(err, &verr):
			ui.renderPostForm(w, r, p, http.StatusUnprocessableEntity, postFromInput(in), p.posts, verr.Error())
		case errors.As(err, &perr) && !errors.Is(err, apiclient.ErrSessionExpired):
			msg := "Saved as draft, but publishing failed: " + apiMessage(perr.Err)
			http.Redirect(w, r, p.posts+"/"+url.PathEscape(perr.Draft.ID)+"/edit?error="+url.QueryEscape(msg), http.StatusSeeOther)
		default:
			ui.failAPI(w, r, "Failed to create post", err)
		}
		return
	}

	ui.logger.Info("post created", "post_id", post.ID, "published", post.Published)
	http.Redirect(w, r, p.posts, http.StatusSeeOther)
}

// HandlePostEdit renders the form for an existing post.
func (ui *UI) HandlePostEdit(w http.ResponseWriter, r *http.Request) {
	p := panelFor(r)
	id := chi.URLParam(r, "id")

	post, err := ui.api.Post(ui.apiContext(r), id)
	if err != nil {
		ui.failAPI(w, r, "Post not found", err)
		return
	}
	ui.renderPostForm(w, r, p, http.StatusOK, post, p.posts+"/"+url.PathEscape(id), r.URL.Query().Get("error"))
}

// HandlePostUpdate saves changes to an existing post.
func (ui *UI) HandlePostUpdate(w http.ResponseWriter, r *http.Request) {
	p := panelFor(r)
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		ui.renderStatus(w, r, http.StatusBadRequest, "Invalid form", err)
		return
	}

	in := postInputFromForm(r)
	if _, err := ui.api.UpdatePost(ui.apiContext(r), id, in); err != nil {
		var verr *apiclient.ValidationError
		if errors.As(err, &verr) {
			post := postFromInput(in)
			post.ID = id
			ui.renderPostForm(w, r, p, http.StatusUnprocessableEntity, post, p.posts+"/"+url.PathEscape(id), verr.Error())
			return
		}
		ui.failAPI(w, r, "Failed to update post", err)
		return
	}

	ui.logger.Info("post updated", "post_id", id)
	http.Redirect(w, r, p.posts, http.StatusSeeOther)
}

// HandlePostPublish publishes a draft from the post list (htmx).
func (ui *UI) HandlePostPublish(w http.ResponseWriter, r *http.Request) {
	p := panelFor(r)
	id := chi.URLParam(r, "id")

	if _, err := ui.api.PublishPost(ui.apiContext(r), id); err != nil {
		ui.failAction(w, r, "Failed to publish post", err)
		return
	}

	ui.logger.Info("post published", "post_id", id)
	guard.Redirect(w, r, p.posts)
}

// HandlePostDelete deletes a post; the htmx caller removes the row.
func (ui *UI) HandlePostDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := ui.api.DeletePost(ui.apiContext(r), id); err != nil {
		ui.failAction(w, r, "Failed to delete post", err)
		return
	}

	ui.logger.Info("post deleted", "post_id", id)
	w.WriteHeader(http.StatusOK)
}

// failAction reports a failed htmx action without swapping the target.
func (ui *UI) failAction(w http.ResponseWriter, r *http.Request, message string, err error) {
	if errors.Is(err, apiclient.ErrSessionExpired) || r.Header.Get("HX-Request") != "true" {
		ui.failAPI(w, r, message, err)
		return
	}
	ui.logger.Warn(message, "error", err)
	w.Header().Set("HX-Reswap", "none")
	status := http.StatusBadGateway
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Status < 500 {
		status = apiErr.Status
	}
	http.Error(w, message+": "+apiMessage(err), status)
}

func apiMessage(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func (ui *UI) renderPostForm(w http.ResponseWriter, r *http.Request, p panel, status int, post *model.Post, action, errMsg string) {
	title := "New Post"
	if post.ID != "" {
		title = "Edit Post"
	}
	data := ui.panelData(r, title, p.area)
	data["Post"] = post
	data["Action"] = action
	data["Base"] = p.posts
	data["Error"] = errMsg
	ui.renderWithStatus(w, status, "posts/form", data)
}

func postInputFromForm(r *http.Request) apiclient.PostInput {
	return apiclient.PostInput{
		Title:         strings.TrimSpace(r.FormValue("title")),
		Excerpt:       strings.TrimSpace(r.FormValue("excerpt")),
		Content:       r.FormValue("content"),
		FeaturedImage: strings.TrimSpace(r.FormValue("featuredImage")),
		Tags:          splitTags(r.FormValue("tags")),
		Published:     r.FormValue("published") == "true",
	}
}

func postFromInput(in apiclient.PostInput) *model.Post {
	return &model.Post{
		Title:         in.Title,
		Excerpt:       in.Excerpt,
		Content:       in.Content,
		FeaturedImage: in.FeaturedImage,
		Tags:          in.Tags,
		Published:     in.Published,
	}
}

func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
