// Command orderctl is the terminal client for an orderdesk server: the
// customer and admin dashboards as subcommands. The current identity lives
// in a session file and is threaded through explicitly; only login, register
// and logout touch it.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"orderdesk/internal/client"
)

var (
	serverURL   string
	sessionPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "orderctl",
	Short: "orderctl is the orderdesk terminal client",
	Long:  "orderctl drives an orderdesk server: submit and track orders as a customer, review and update them as an admin.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("ORDERDESK_SERVER", "http://localhost:8080"), "orderdesk server base URL")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session-file", defaultSessionPath(), "path of the session file")

	// Auth
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	// Customer dashboard
	rootCmd.AddCommand(ordersCmd)

	// Admin dashboard
	rootCmd.AddCommand(adminCmd)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".orderdesk-session.json"
	}
	return filepath.Join(home, ".config", "orderdesk", "session.json")
}

// newClient loads the session file and binds a client to it.
func newClient() (*client.Client, *client.Session, error) {
	session, err := client.LoadSession(sessionPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	return client.New(serverURL, session), session, nil
}

// requireSession is newClient plus a login check: commands behind it never
// reach the server unauthenticated.
func requireSession() (*client.Client, *client.Session, error) {
	c, session, err := newClient()
	if err != nil {
		return nil, nil, err
	}
	if !session.Active() {
		return nil, nil, fmt.Errorf("not logged in, run `orderctl login` first")
	}
	return c, session, nil
}

// requireAdminSession guards the admin dashboard: a non-admin session is
// turned away locally, mirroring the dashboard redirect.
func requireAdminSession() (*client.Client, *client.Session, error) {
	c, session, err := requireSession()
	if err != nil {
		return nil, nil, err
	}
	if !session.IsAdmin() {
		return nil, nil, fmt.Errorf("admin role required, logged in as %s (%s)", session.User.Email, session.User.Role)
	}
	return c, session, nil
}

func saveSession(session *client.Session) error {
	if err := session.Save(sessionPath); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
