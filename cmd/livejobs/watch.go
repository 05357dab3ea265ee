package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jdziat/livejobs"
	"github.com/jdziat/livejobs/pkg/core"
	"github.com/jdziat/livejobs/pkg/storage"
	"github.com/jdziat/livejobs/ui"
)

func watchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Open the live dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// The dashboard owns the terminal, so logs go to a file or nowhere.
			logger, closeLog, err := a.cfg.Log.OpenLogger(io.Discard)
			if err != nil {
				return err
			}
			defer closeLog()

			client, err := livejobs.FromConfig(a.cfg, livejobs.WithLogger(logger))
			if err != nil {
				return err
			}

			stopHistory, err := startHistory(ctx, a, client, logger)
			if err != nil {
				return err
			}
			defer stopHistory()

			model := ui.NewModel(client, client.Hub())
			defer model.Release()

			runErr := make(chan error, 1)
			go func() { runErr <- client.Run(ctx) }()
			client.WaitReady()

			_, progErr := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			_ = client.Close()
			if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			if progErr != nil && ctx.Err() == nil {
				return fmt.Errorf("dashboard: %w", progErr)
			}
			return nil
		},
	}
}

// startHistory seeds the client from the cached snapshots and starts the
// recorder, both logging to logger. The returned function stops the recorder
// and closes storage.
func startHistory(ctx context.Context, a *app, client *livejobs.Client, logger *slog.Logger) (func(), error) {
	if !a.cfg.History.Enabled {
		return func() {}, nil
	}

	st, err := storage.Open(a.cfg.History.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	backend := a.cfg.BaseURL
	if jobs, _, err := st.LoadSnapshot(ctx, backend, core.SnapshotJobs); err == nil {
		client.Seed(jobs)
	}
	if dlq, _, err := st.LoadSnapshot(ctx, backend, core.SnapshotDLQ); err == nil {
		client.SeedDLQ(dlq)
	}

	rec := storage.NewRecorder(client, st, backend,
		storage.WithRetention(a.cfg.History.Retention),
		storage.WithRecorderLogger(logger),
	)
	recCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		rec.Start(recCtx)
		close(done)
	}()
	rec.WaitReady()

	return func() {
		cancel()
		<-done
		_ = st.Close()
	}, nil
}
