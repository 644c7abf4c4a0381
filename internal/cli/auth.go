package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/todoterm/todoterm/internal/auth"
	"github.com/todoterm/todoterm/internal/session"
)

func newLoginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			if username == "" {
				fmt.Print("Username: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read username: %w", err)
				}
				username = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Print("Password: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			user, err := a.flow(stderrNotifier{}).Login(cmd.Context(), username, password)
			if err != nil || user == nil {
				// The notifier already told the user; keep the exit code honest.
				return fmt.Errorf("login failed")
			}
			if err := auth.PersistToken(a.store, user.Token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			ok("logged in as " + user.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			if os.Getenv(session.EnvToken) != "" {
				ok("token is provided by " + session.EnvToken + " (nothing to delete)")
				return nil
			}
			if err := a.store.Clear(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			ok("logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in username",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			name := a.store.Get(session.KeyUsername)
			if name == "" {
				fmt.Println(mutedStyle.Render("not logged in"))
				fmt.Println("Run: todoterm login")
				return nil
			}
			fmt.Println(name)
			return nil
		},
	}
}
