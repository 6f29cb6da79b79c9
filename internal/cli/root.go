package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/me/blogfront/internal/apiclient"
	"github.com/me/blogfront/internal/logging"
	"github.com/me/blogfront/internal/session"
	"github.com/me/blogfront/internal/store"
)

var (
	flagServer     string
	flagSessionDir string
	flagProfile    string
	flagDebug      bool
	flagLogLevel   string
	flagLogFormat  string

	logger   *slog.Logger
	api      *apiclient.Client
	sessions *session.Manager
)

// defaultServer returns the default blog API URL, checking BLOGFRONT_API_URL env var first.
func defaultServer() string {
	if s := os.Getenv("BLOGFRONT_API_URL"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// defaultSessionDir is ~/.blogfront/sessions, or ./.blogfront/sessions without a home directory.
func defaultSessionDir() string {
	if d := os.Getenv("BLOGFRONT_SESSION_DIR"); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".blogfront", "sessions")
	}
	return filepath.Join(home, ".blogfront", "sessions")
}

// NewRootCmd creates the root cobra command for the blogfront CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "blogfront",
		Short: "BlogFront - command-line client for the blog API",
		Long:  "BlogFront signs in to the blog API and manages posts and users from the terminal.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLogger(logging.ParseLevel(flagLogLevel), flagLogFormat)

			backend, err := store.NewFileStore(flagSessionDir, logger)
			if err != nil {
				return fmt.Errorf("open session directory: %w", err)
			}
			sessions = session.NewManager(backend, logger, session.WithCleanupInterval(0))
			if err := sessions.Init(cmd.Context()); err != nil {
				return err
			}
			api = apiclient.New(flagServer, logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if sessions != nil {
				sessions.Dispose()
			}
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "Blog API URL (or BLOGFRONT_API_URL env)")
	root.PersistentFlags().StringVar(&flagSessionDir, "session-dir", defaultSessionDir(), "Directory holding saved sessions (or BLOGFRONT_SESSION_DIR env)")
	root.PersistentFlags().StringVar(&flagProfile, "profile", "default", "Session profile name")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newPostsCmd(),
		newUsersCmd(),
	)

	return root
}
