package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/me/blogfront/pkg/model"
)

// PostInput is the editable part of a post.
type PostInput struct {
	Title         string   `json:"title" validate:"required,max=200"`
	Excerpt       string   `json:"excerpt" validate:"max=500"`
	Content       string   `json:"content" validate:"required"`
	FeaturedImage string   `json:"featuredImage,omitempty" validate:"omitempty,url"`
	Tags          []string `json:"tags"`
	Published     bool     `json:"published"`
}

// PublishedPosts lists published posts, newest first.
func (c *Client) PublishedPosts(ctx context.Context, page, size int) (*model.Page[model.Post], error) {
	var out model.Page[model.Post]
	if err := c.do(ctx, http.MethodGet, "/api/posts/public", pageQuery(page, size), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PublishedPostBySlug fetches one published post.
func (c *Client) PublishedPostBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var out model.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/public/"+url.PathEscape(slug), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchPublishedPosts runs a full-text search over published posts.
func (c *Client) SearchPublishedPosts(ctx context.Context, q string, page, size int) (*model.Page[model.Post], error) {
	query := pageQuery(page, size)
	query.Set("q", q)
	var out model.Page[model.Post]
	if err := c.do(ctx, http.MethodGet, "/api/posts/public/search", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PublishedPostsByTag lists published posts carrying tag.
func (c *Client) PublishedPostsByTag(ctx context.Context, tag string, page, size int) (*model.Page[model.Post], error) {
	var out model.Page[model.Post]
	if err := c.do(ctx, http.MethodGet, "/api/posts/public/tags/"+url.PathEscape(tag), pageQuery(page, size), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Posts lists all posts, drafts included. Requires EDITOR or ADMIN.
func (c *Client) Posts(ctx context.Context, page, size int) (*model.Page[model.Post], error) {
	var out model.Page[model.Post]
	if err := c.do(ctx, http.MethodGet, "/api/posts", pageQuery(page, size), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

const (
	walkPageSize = 100
	maxWalkPages = 50
)

// AllPosts walks the post listing and returns every post, drafts included.
// It stops after maxWalkPages pages.
func (c *Client) AllPosts(ctx context.Context) ([]model.Post, error) {
	var all []model.Post
	for n := 0; n < maxWalkPages; n++ {
		page, err := c.Posts(ctx, n, walkPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Content...)
		if !page.HasNext() {
			break
		}
	}
	return all, nil
}

// Post fetches any post by id.
func (c *Client) Post(ctx context.Context, id string) (*model.Post, error) {
	var out model.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePost saves a new post. When in.Published is set the post is first
// saved as a draft and then published; if publishing fails the draft is kept
// and returned together with a *PublishError.
func (c *Client) CreatePost(ctx context.Context, in PostInput) (*model.Post, error) {
	if err := validatePayload(in); err != nil {
		return nil, err
	}
	publish := in.Published
	in.Published = false

	var draft model.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", nil, in, &draft); err != nil {
		return nil, err
	}
	if !publish {
		return &draft, nil
	}

	published, err := c.PublishPost(ctx, draft.ID)
	if err != nil {
		c.logger.Warn("post saved as draft, publish failed", "post_id", draft.ID, "error", err)
		return &draft, &PublishError{Draft: &draft, Err: err}
	}
	return published, nil
}

// UpdatePost replaces the editable fields of a post.
func (c *Client) UpdatePost(ctx context.Context, id string, in PostInput) (*model.Post, error) {
	if err := validatePayload(in); err != nil {
		return nil, err
	}
	var out model.Post
	if err := c.do(ctx, http.MethodPut, "/api/posts/"+url.PathEscape(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(id), nil, nil, nil)
}

// PublishPost marks a draft as published.
func (c *Client) PublishPost(ctx context.Context, id string) (*model.Post, error) {
	var out model.Post
	if err := c.do(ctx, http.MethodPut, "/api/posts/"+url.PathEscape(id)+"/publish", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
