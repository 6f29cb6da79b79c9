package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/me/blogfront/internal/apiclient"
)

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the blog API",
		Long:  "Sign in and save the session under the selected profile for later commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			var err error
			if username == "" {
				if username, err = prompt(in, out, "Username: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = prompt(in, out, "Password: "); err != nil {
					return err
				}
			}

			resp, err := api.SignIn(cmd.Context(), apiclient.LoginRequest{Username: username, Password: password})
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			user := resp.User()
			if err := profile().Login(cmd.Context(), user, resp.Credential()); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			fmt.Fprintf(out, "Logged in as %s (%s)\n", user.Username, strings.Join(user.RoleNames(), ", "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted if omitted)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted if omitted)")
	return cmd
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("%s cannot be empty", strings.TrimSuffix(strings.ToLower(label), ": "))
	}
	return line, nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := profile().Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := authedContext(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Username: %s\n", st.User.Username)
			fmt.Fprintf(out, "Email:    %s\n", st.User.Email)
			fmt.Fprintf(out, "Roles:    %s\n", strings.Join(st.User.RoleNames(), ", "))
			fmt.Fprintf(out, "Profile:  %s\n", flagProfile)
			return nil
		},
	}
}
