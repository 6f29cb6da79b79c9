package model

import "time"

// Post is a blog post as served by the blog API.
type Post struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Excerpt       string    `json:"excerpt"`
	Content       string    `json:"content"`
	Author        string    `json:"author"`
	AuthorID      string    `json:"authorId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Published     bool      `json:"published"`
	FeaturedImage string    `json:"featuredImage,omitempty"`
	Tags          []string  `json:"tags"`
	Slug          string    `json:"slug"`
}

// Page is one page of a paginated list endpoint.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
	Size          int `json:"size"`
}

// HasNext reports whether another page follows this one.
func (p *Page[T]) HasNext() bool {
	return p.Number+1 < p.TotalPages
}

// HasPrev reports whether a page precedes this one.
func (p *Page[T]) HasPrev() bool {
	return p.Number > 0
}

// DashboardStats summarises the content visible to the signed-in user.
type DashboardStats struct {
	TotalPosts     int `json:"totalPosts"`
	PublishedPosts int `json:"publishedPosts"`
	DraftPosts     int `json:"draftPosts"`
	TotalUsers     int `json:"totalUsers"`
}
