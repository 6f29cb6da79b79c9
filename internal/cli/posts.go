package cli

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/me/blogfront/pkg/model"
)

func newPostsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List and manage posts",
	}
	cmd.AddCommand(newPostsListCmd(), newPostsPublishCmd(), newPostsDeleteCmd())
	return cmd
}

func newPostsListCmd() *cobra.Command {
	var page, size int
	var published bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts (drafts included unless --published)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				result *model.Page[model.Post]
				err    error
			)
			if published {
				result, err = api.PublishedPosts(cmd.Context(), page, size)
			} else {
				ctx, _, aerr := authedContext(cmd.Context())
				if aerr != nil {
					return aerr
				}
				result, err = api.Posts(ctx, page, size)
			}
			if err != nil {
				return apiFailure("list posts", err)
			}

			printPosts(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page number (0-based)")
	cmd.Flags().IntVar(&size, "size", 10, "Page size")
	cmd.Flags().BoolVar(&published, "published", false, "Only published posts (no login needed)")
	return cmd
}

func printPosts(out io.Writer, page *model.Page[model.Post]) {
	if len(page.Content) == 0 {
		fmt.Fprintln(out, "No posts found.")
		return
	}

	fmt.Fprintf(out, "%-24s  %-9s  %-40s  %s\n", "ID", "STATUS", "TITLE", "UPDATED")
	fmt.Fprintf(out, "%-24s  %-9s  %-40s  %s\n", "--", "------", "-----", "-------")
	for _, p := range page.Content {
		status := "draft"
		if p.Published {
			status = "published"
		}
		title := shorten(p.Title, 40)
		updated := "-"
		if !p.UpdatedAt.IsZero() {
			updated = p.UpdatedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(out, "%-24s  %-9s  %-40s  %s\n", p.ID, status, title, updated)
	}

	if page.HasNext() {
		fmt.Fprintf(out, "\n(page %d of %d, %d posts; use --page %d for more)\n",
			page.Number+1, page.TotalPages, page.TotalElements, page.Number+1)
	}
}

func newPostsPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <post-id>",
		Short: "Publish a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := authedContext(cmd.Context())
			if err != nil {
				return err
			}
			post, err := api.PublishPost(ctx, args[0])
			if err != nil {
				return apiFailure("publish post", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published %s\n", post.ID)
			return nil
		},
	}
}

func newPostsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := authedContext(cmd.Context())
			if err != nil {
				return err
			}
			if err := api.DeletePost(ctx, args[0]); err != nil {
				return apiFailure("delete post", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

// shorten fits s into width runes, marking the cut with "...".
func shorten(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width-3]) + "..."
}
