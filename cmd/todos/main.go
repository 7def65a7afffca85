package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kelsos/todos/internal/client"
	"github.com/kelsos/todos/internal/config"
	"github.com/kelsos/todos/internal/logger"
	"github.com/kelsos/todos/internal/services"
	"github.com/kelsos/todos/internal/todolist"
	"github.com/kelsos/todos/internal/tui"
	"github.com/kelsos/todos/internal/utils"
)

// newController wires the remote store client into a list controller
func newController(cfg *config.Config, onChange func()) (*todolist.Controller, error) {
	cfg.SetBaseURL()
	if err := cfg.ValidateClient(); err != nil {
		return nil, err
	}

	apiClient := client.NewAPIClient(cfg)
	todoService := services.NewTodoService(apiClient, cfg.UserID)

	logger.Debug("Using todos API at %s for user %d", cfg.BaseURL, cfg.UserID)

	return todolist.New(todoService, cfg.UserID,
		todolist.WithNotifier(todolist.NewNotifier(cfg.ErrorTimeout)),
		todolist.WithMaxInFlight(cfg.MaxInFlight),
		todolist.WithOnChange(onChange),
	), nil
}

func runTUI(ctx context.Context, cfg *config.Config, logDir string) error {
	logPath, err := logger.InitFileOnly(logDir, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Close()

	app := tui.NewApp()
	ctrl, err := newController(cfg, app.Notify)
	if err != nil {
		return err
	}

	if err := app.Run(ctx, ctrl); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Logs written to %s\n", logPath)
	return nil
}

func main() {
	loaded := utils.LoadEnvironment()

	cfg := config.NewConfig()
	cfg.LoadFromEnvironment()

	var logDir string

	rootCmd := &cobra.Command{
		Use:           "todos",
		Short:         "A terminal todo list backed by a remote todos API",
		Long:          `todos keeps a single todo list in step with a remote todos API, in a terminal UI or one command at a time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd != cmd.Root() {
				logger.Init(cfg.LogLevel)
			}
			for _, path := range loaded {
				logger.Debug("Loaded environment from %s", path)
			}
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), cfg, logDir)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfg.BaseURL, "api-url", "a", cfg.BaseURL, "Base URL of the todos API (default: the local development store)")
	flags.IntVarP(&cfg.UserID, "user-id", "u", cfg.UserID, "Owner id of the todo list")
	flags.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "Timeout of a single API request, 0 disables it")
	flags.DurationVar(&cfg.ErrorTimeout, "error-timeout", cfg.ErrorTimeout, "How long error notifications stay visible")
	flags.IntVar(&cfg.MaxInFlight, "max-in-flight", cfg.MaxInFlight, "Maximum concurrent requests of bulk operations, 0 is unbounded")
	flags.IntVarP(&cfg.Port, "port", "p", cfg.Port, "Port of the local development store")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&logDir, "log-dir", "logs", "Directory for the terminal UI log files")

	rootCmd.AddCommand(
		newListCmd(cfg),
		newAddCmd(cfg),
		newToggleCmd(cfg),
		newToggleAllCmd(cfg),
		newRenameCmd(cfg),
		newRemoveCmd(cfg),
		newClearCompletedCmd(cfg),
		newServeCmd(cfg),
		newBackupCmd(cfg),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", todolist.UserMessage(err))
		logger.Debug("Command failed: %v", err)
		stop()
		os.Exit(1)
	}
}
