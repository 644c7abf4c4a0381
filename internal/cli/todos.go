package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/todoterm/todoterm/internal/session"
	"github.com/todoterm/todoterm/internal/todo"
	"github.com/todoterm/todoterm/internal/tui"
)

// stderrNotifier surfaces sync-layer errors on stderr for one-shot commands.
type stderrNotifier struct{}

func (stderrNotifier) Error(message string) { fail(message) }

// storedUserID reads the persisted user id, falling back to 1.
func storedUserID(store session.Store) int64 {
	id, err := strconv.ParseInt(store.Get(session.KeyUserID), 10, 64)
	if err != nil || id <= 0 {
		return 1
	}
	return id
}

func newBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive task board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			flash := &tui.Flash{}
			factory := func(userID int64) *todo.Syncer {
				return a.syncer(flash, userID)
			}
			m := tui.New(factory, a.flow(flash), a.store, flash, a.log)
			return tui.Run(m)
		},
	}
}

func newAddCmd() *cobra.Command {
	var filePath string
	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Create a task (optionally with an attachment)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("add: empty text")
			}

			s := a.syncer(stderrNotifier{}, storedUserID(a.store))
			if filePath != "" {
				f, err := todo.StageFileFromPath(filePath)
				if err != nil {
					return err
				}
				s.StageComposeFile(f)
			}
			if err := s.Create(cmd.Context(), text); err != nil {
				return err
			}
			ok("added")
			return nil
		},
	}
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Attach a local file")
	return cmd
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("rm: not a number: %s", args[0])
			}
			a, err := newApp(false)
			if err != nil {
				return err
			}
			s := a.syncer(nil, storedUserID(a.store))
			if err := s.Delete(cmd.Context(), id); err != nil {
				return err
			}
			ok("removed")
			return nil
		},
	}
}
