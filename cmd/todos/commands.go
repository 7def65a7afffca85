package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kelsos/todos/internal/backup"
	"github.com/kelsos/todos/internal/config"
	"github.com/kelsos/todos/internal/logger"
	"github.com/kelsos/todos/internal/models"
	"github.com/kelsos/todos/internal/server"
	"github.com/kelsos/todos/internal/storage"
	"github.com/kelsos/todos/internal/todolist"
)

var (
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Strikethrough(true)
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// withList loads the list and then runs intent against it
func withList(ctx context.Context, cfg *config.Config, intent func(ctx context.Context, ctrl *todolist.Controller) error) (*todolist.Controller, error) {
	ctrl, err := newController(cfg, nil)
	if err != nil {
		return nil, err
	}
	if err := ctrl.Load(ctx); err != nil {
		return nil, err
	}
	if intent == nil {
		return ctrl, nil
	}
	return ctrl, intent(ctx, ctrl)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid todo id %q", arg)
	}
	return id, nil
}

func findTodo(ctrl *todolist.Controller, id int) (models.Todo, error) {
	todo, ok := ctrl.Snapshot().Find(id)
	if !ok {
		return models.Todo{}, fmt.Errorf("todo %d not found", id)
	}
	return todo, nil
}

func printList(s todolist.Snapshot) {
	for _, todo := range s.Visible {
		check, title := "[ ]", todo.Title
		if todo.Completed {
			check, title = "[x]", doneStyle.Render(todo.Title)
		}
		fmt.Printf("%s %s %s\n", idStyle.Render(fmt.Sprintf("%4d", todo.ID)), check, title)
	}

	item := "items"
	if s.ActiveCount == 1 {
		item = "item"
	}
	fmt.Println(countStyle.Render(fmt.Sprintf("%d %s left (%s)", s.ActiveCount, item, strings.ToLower(s.Filter.String()))))
}

func newListCmd(cfg *config.Config) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the todo list",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := models.ParseFilter(filter)
			if err != nil {
				return err
			}
			ctrl, err := withList(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			ctrl.SetFilter(f)
			printList(ctrl.Snapshot())
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "Which todos to show: all, active or completed")
	return cmd
}

func newAddCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>",
		Short: "Add a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			_, err := withList(cmd.Context(), cfg, func(ctx context.Context, ctrl *todolist.Controller) error {
				created, err := ctrl.Add(ctx, title)
				if err != nil {
					return err
				}
				fmt.Printf("Added %d: %s\n", created.ID, created.Title)
				return nil
			})
			return err
		},
	}
}

func newToggleCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip the completed flag of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctrl, err := withList(cmd.Context(), cfg, func(ctx context.Context, ctrl *todolist.Controller) error {
				todo, err := findTodo(ctrl, id)
				if err != nil {
					return err
				}
				return ctrl.Toggle(ctx, id, !todo.Completed)
			})
			if err != nil {
				return err
			}
			printList(ctrl.Snapshot())
			return nil
		},
	}
}

func newToggleAllCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-all",
		Short: "Complete every todo, or reactivate all when all are completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := withList(cmd.Context(), cfg, func(ctx context.Context, ctrl *todolist.Controller) error {
				return ctrl.ToggleAll(ctx)
			})
			if ctrl != nil {
				printList(ctrl.Snapshot())
			}
			return err
		},
	}
}

func newRenameCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Change the title of a todo",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")
			_, err = withList(cmd.Context(), cfg, func(ctx context.Context, ctrl *todolist.Controller) error {
				if _, err := findTodo(ctrl, id); err != nil {
					return err
				}
				return ctrl.Rename(ctx, id, title)
			})
			return err
		},
	}
}

func newRemoveCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete todos",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			_, err := withList(cmd.Context(), cfg, func(ctx context.Context, ctrl *todolist.Controller) error {
				// every id must belong to the loaded list before anything is deleted
				for _, id := range ids {
					if _, err := findTodo(ctrl, id); err != nil {
						return err
					}
				}
				for _, id := range ids {
					if err := ctrl.Delete(ctx, id); err != nil {
						return err
					}
					fmt.Printf("Deleted %d\n", id)
				}
				return nil
			})
			return err
		},
	}
}

func newClearCompletedCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed todo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := withList(cmd.Context(), cfg, func(ctx context.Context, ctrl *todolist.Controller) error {
				return ctrl.ClearCompleted(ctx)
			})
			if ctrl != nil {
				printList(ctrl.Snapshot())
			}
			return err
		},
	}
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local development todos API on SQLite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.DataDir == "" {
				dir, err := storage.GetDefaultDataDir()
				if err != nil {
					return err
				}
				cfg.DataDir = dir
			}

			store, err := storage.Open(cmd.Context(), cfg.DataDir)
			if err != nil {
				return err
			}
			defer store.Close()

			logger.Info("Development store data in %s", cfg.DataDir)
			return server.New(store).ListenAndServe(cmd.Context(), fmt.Sprintf(":%d", cfg.Port))
		},
	}
	cmd.Flags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory of the development store database")
	return cmd
}

func newBackupCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of the development store database",
		Long:  `Create a zip archive holding a consistent snapshot of the development store database. The store may keep serving meanwhile.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backupFile, err := backup.CreateBackup(cmd.Context(), cfg.DataDir, cfg.BackupDir)
			if err != nil {
				return err
			}
			logger.Info("Backup created successfully: %s", backupFile)
			fmt.Fprintln(os.Stdout, backupFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory of the development store database")
	cmd.Flags().StringVar(&cfg.BackupDir, "backup-dir", cfg.BackupDir, "Directory where the backup will be stored (default: ~/backups)")
	return cmd
}
