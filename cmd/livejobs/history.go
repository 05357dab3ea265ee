package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdziat/livejobs/pkg/storage"
	"github.com/jdziat/livejobs/pkg/view"
)

// historyColumns are the stat keys printed per sample.
var historyColumns = []string{
	view.KeyQueued,
	view.KeyRunning,
	view.KeyDLQ,
	view.KeySuccessRate,
	view.KeyRetryRate,
	view.KeyThroughput,
	view.KeyLatency,
}

func historyCmd(a *app) *cobra.Command {
	var (
		since   time.Duration
		backend string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recorded stats samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			if backend == "" {
				backend = a.cfg.BaseURL
			}
			st, err := storage.Open(a.cfg.History.Path, a.logger)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer st.Close()

			var from time.Time
			if since > 0 {
				from = time.Now().Add(-since)
			}
			samples, err := st.GetHistory(cmd.Context(), backend, from, time.Time{})
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}
			if len(samples) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No samples recorded.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprint(tw, "TIME")
			for _, key := range historyColumns {
				c, _ := view.Lookup(view.FormatStats(samples[0].Summary()), key)
				fmt.Fprintf(tw, "\t%s", c.Label)
			}
			fmt.Fprintln(tw)

			for _, s := range samples {
				cells := view.FormatStats(s.Summary())
				fmt.Fprint(tw, s.Timestamp.Local().Format(time.DateTime))
				for _, key := range historyColumns {
					c, _ := view.Lookup(cells, key)
					fmt.Fprintf(tw, "\t%s", c.Value)
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().DurationVar(&since, "since", time.Hour, "how far back to read; 0 reads everything")
	cmd.Flags().StringVar(&backend, "backend", "", "backend whose samples to read (default: configured base URL)")
	return cmd
}
