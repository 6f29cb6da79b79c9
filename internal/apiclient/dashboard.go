package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/me/blogfront/pkg/model"
)

// DashboardStats gathers the panel counters. The user count is only visible to
// admins; for anyone else it is reported as zero.
func (c *Client) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	all, err := c.Posts(ctx, 0, 1)
	if err != nil {
		return nil, err
	}
	published, err := c.PublishedPosts(ctx, 0, 1)
	if err != nil {
		return nil, err
	}

	users, err := c.UserCount(ctx)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			return nil, err
		}
		if !IsStatus(err, http.StatusForbidden) {
			c.logger.Debug("user count unavailable", "error", err)
		}
		users = 0
	}

	return &model.DashboardStats{
		TotalPosts:     all.TotalElements,
		PublishedPosts: published.TotalElements,
		DraftPosts:     max(0, all.TotalElements-published.TotalElements),
		TotalUsers:     users,
	}, nil
}

// RecentPosts returns the newest posts, drafts included.
func (c *Client) RecentPosts(ctx context.Context, limit int) ([]model.Post, error) {
	page, err := c.Posts(ctx, 0, limit)
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}
