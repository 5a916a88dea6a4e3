// Command taskspace serves and manages agent task trees: spaces, checklists,
// items and steps, plus the reports built over them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/report"
	"github.com/nhle/taskspace/internal/store"
	"github.com/nhle/taskspace/internal/theme"
	"github.com/nhle/taskspace/internal/tree"
)

// Global flags
var (
	configPath string
	dbPath     string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "taskspace",
	Short: "Multi-tenant task tree service",
	Long: `taskspace keeps a tree of agents, spaces, checklists, items and steps.

Item progress follows from its steps, deleting a node removes everything
beneath it, and the report commands summarize the tree.

Examples:
  taskspace serve                          # Run the HTTP API
  taskspace agent create --name Alice --email alice@example.com
  taskspace item list --checklist Sprint1  # Items with statistics
  taskspace report deadlines               # Overdue and upcoming items`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (overrides database.path)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(agentCmd)
	rootCmd.AddCommand(spaceCmd)
	rootCmd.AddCommand(checklistCmd)
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(stepCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(adminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

// env is everything a command needs once the config is loaded.
type env struct {
	cfg     *model.AppConfig
	logger  *slog.Logger
	store   *store.SQLiteStore
	tree    *tree.Service
	reports *report.Engine
}

func loadConfig() (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	return cfg, nil
}

// openEnv loads the config and opens the store. Callers must close the
// returned env.
func openEnv(logOut io.Writer) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}

	if cfg.Database.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:     cfg,
		logger:  logger,
		store:   s,
		tree:    tree.New(s, logger.With("component", "tree")),
		reports: report.NewEngine(s),
	}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

// withEnv opens an env for a one-shot command. Logs go to stderr so they
// never mix with command output.
func withEnv(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	e, err := openEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()
	return fn(ctx, e)
}

// newLogger builds the process logger from the log section of the config.
func newLogger(cfg model.LogConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "", "info":
		level = slog.LevelInfo
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", cfg.Level)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}

var errCancelled = errors.New("cancelled")
