package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts (admin only)",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List user accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := authedContext(cmd.Context())
			if err != nil {
				return err
			}
			users, err := api.Users(ctx)
			if err != nil {
				return apiFailure("list users", err)
			}

			out := cmd.OutOrStdout()
			if len(users) == 0 {
				fmt.Fprintln(out, "No users found.")
				return nil
			}
			fmt.Fprintf(out, "%-24s  %-20s  %-30s  %s\n", "ID", "USERNAME", "EMAIL", "ROLES")
			fmt.Fprintf(out, "%-24s  %-20s  %-30s  %s\n", "--", "--------", "-----", "-----")
			for _, u := range users {
				fmt.Fprintf(out, "%-24s  %-20s  %-30s  %s\n", u.ID, u.Username, u.Email, strings.Join(u.RoleNames(), ","))
			}
			return nil
		},
	})
	return cmd
}
