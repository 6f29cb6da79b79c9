package ui

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/me/blogfront/pkg/model"
)

const homePostCount = 6

// HandleHome renders the landing page with the latest published posts.
func (ui *UI) HandleHome(w http.ResponseWriter, r *http.Request) {
	ctx := ui.apiContext(r)
	page, err := ui.api.PublishedPosts(ctx, 0, homePostCount)
	if err != nil {
		ui.failAPI(w, r, "Failed to load posts", err)
		return
	}

	data := ui.pageData(r, "Home")
	data["Posts"] = page.Content
	ui.render(w, "home", data)
}

// HandleBlogList renders published posts, optionally searched or filtered by tag.
func (ui *UI) HandleBlogList(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	tag := strings.TrimSpace(r.URL.Query().Get("tag"))
	pageNum := pageParam(r)
	ctx := ui.apiContext(r)

	var (
		page *model.Page[model.Post]
		err  error
	)
	base := url.Values{}
	switch {
	case tag != "":
		page, err = ui.api.PublishedPostsByTag(ctx, tag, pageNum, defaultPageSize)
		base.Set("tag", tag)
	case q != "":
		page, err = ui.api.SearchPublishedPosts(ctx, q, pageNum, defaultPageSize)
		base.Set("q", q)
	default:
		page, err = ui.api.PublishedPosts(ctx, pageNum, defaultPageSize)
	}
	if err != nil {
		ui.failAPI(w, r, "Failed to load posts", err)
		return
	}

	data := ui.pageData(r, "Blog")
	data["Posts"] = page.Content
	data["Query"] = q
	data["Tag"] = tag
	data["Pagination"] = buildPagination(page, pageBase("/blog", base))
	ui.render(w, "blog/list", data)
}

// HandleBlogPost renders a single published post.
func (ui *UI) HandleBlogPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	ctx := ui.apiContext(r)

	post, err := ui.api.PublishedPostBySlug(ctx, slug)
	if err != nil {
		ui.failAPI(w, r, "Post not found", err)
		return
	}

	data := ui.pageData(r, post.Title)
	data["Post"] = post
	ui.render(w, "blog/post", data)
}

// pageBase returns path with the query so far, ready for "page=N" to be appended.
func pageBase(path string, q url.Values) string {
	if len(q) == 0 {
		return path + "?"
	}
	return path + "?" + q.Encode() + "&"
}
