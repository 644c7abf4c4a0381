// Package cli defines the todoterm command tree.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/todoterm/todoterm/internal/api"
	"github.com/todoterm/todoterm/internal/auth"
	"github.com/todoterm/todoterm/internal/config"
	"github.com/todoterm/todoterm/internal/logging"
	"github.com/todoterm/todoterm/internal/session"
	"github.com/todoterm/todoterm/internal/todo"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

func ok(msg string) {
	fmt.Println(successStyle.Render("✔ " + msg))
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("✖ "+msg))
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "todoterm",
		Short:        "todoterm is a terminal client for your to-do service",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newBoardCmd(),
		newAddCmd(),
		newRmCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
	)
	return cmd
}

// app bundles the wired-up client stack behind every command.
type app struct {
	cfg   *config.Config
	log   logging.Logger
	store *session.FileStore
	svc   *api.TodoService
}

// newApp loads configuration and builds the API stack. When logToFile is set
// (the board), log lines also land under the state dir so they do not fight
// the alternate screen.
func newApp(logToFile bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	opts := logging.Options{Level: cfg.LogLevel}
	if logToFile {
		if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
			return nil, fmt.Errorf("state dir: %w", err)
		}
		opts.File = filepath.Join(cfg.StateDir, "todoterm.log")
	}
	log, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	store := session.NewFileStore(cfg.StateDir)
	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, store, log)
	return &app{
		cfg:   cfg,
		log:   log,
		store: store,
		svc:   api.NewTodoService(client),
	}, nil
}

// syncer builds the synchronization layer for the stored session identity.
func (a *app) syncer(notify todo.Notifier, userID int64) *todo.Syncer {
	return todo.NewSyncer(a.svc, a.log, notify, userID)
}

func (a *app) flow(notify todo.Notifier) *auth.Flow {
	return auth.NewFlow(a.svc, a.store, notify, a.log)
}
