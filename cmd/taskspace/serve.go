package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/taskspace/internal/alerts"
	"github.com/nhle/taskspace/internal/api"
	"github.com/nhle/taskspace/internal/credential"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API until interrupted.

When alerts.enabled is set, a background watcher runs the deadline report
every alerts.interval_sec seconds and logs overdue and upcoming items.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(os.Stderr)
	if err != nil {
		return err
	}
	defer e.Close()

	addr := e.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	adminPassword := adminPasswordFor(e)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var deadlines api.DeadlineWatch
	if e.cfg.Alerts.Enabled {
		w := alerts.New(e.reports, e.logger, time.Duration(e.cfg.Alerts.IntervalSec)*time.Second)
		w.Start(ctx)
		defer w.Stop()
		deadlines = w
	}

	srv := api.NewServer(api.ServerConfig{
		Tree:          e.tree,
		Reports:       e.reports,
		Store:         e.store,
		AdminPassword: adminPassword,
		Deadlines:     deadlines,
		Logger:        e.logger.With("component", "api"),
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(addr) }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	e.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutting down: %w", err)
	}
	return <-errCh
}

// adminPasswordFor resolves the admin password from config, then keyring.
// Keyring failures are logged and leave admin verification disabled.
func adminPasswordFor(e *env) string {
	var vault *credential.Vault
	if e.cfg.Admin.Password == "" {
		v, err := credential.Open()
		if err != nil {
			e.logger.Warn("keyring unavailable", "error", err)
		} else {
			vault = v
		}
	}
	pw, err := credential.ResolveAdminPassword(e.cfg.Admin.Password, vault)
	if err != nil {
		e.logger.Warn("reading admin password", "error", err)
		return ""
	}
	if pw == "" {
		e.logger.Warn("no admin password configured; admin verification disabled")
	}
	return pw
}
