package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jdziat/livejobs/pkg/core"
	"github.com/jdziat/livejobs/pkg/store"
	"github.com/jdziat/livejobs/pkg/view"
)

func jobsCmd(a *app) *cobra.Command {
	var (
		criteria core.FilterCriteria
		asCSV    bool
	)
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Print one filtered snapshot of the job list",
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := a.gateway().FetchJobs(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch jobs: %w", err)
			}
			jobs = store.Filter(jobs, criteria)
			if asCSV {
				return view.WriteCSV(cmd.OutOrStdout(), jobs)
			}
			return printJobs(cmd.OutOrStdout(), jobs)
		},
	}
	cmd.Flags().StringVar(&criteria.Status, "status", "", "only jobs with this status")
	cmd.Flags().StringVar(&criteria.Priority, "priority", "", "only jobs with this priority")
	cmd.Flags().StringVar(&criteria.SearchText, "search", "", "case-insensitive substring of id or type")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of a table")
	return cmd
}

func dlqCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dlq",
		Short: "Print the dead letter queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := a.gateway().FetchDLQ(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch DLQ: %w", err)
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Dead letter queue is empty.")
				return nil
			}
			return printJobs(cmd.OutOrStdout(), jobs)
		},
	}
}

func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print queue statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.gateway().FetchStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch stats: %w", err)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range view.FormatStats(s) {
				fmt.Fprintf(tw, "%s\t%s\n", c.Label, c.Value)
			}
			return tw.Flush()
		},
	}
}

func printJobs(w io.Writer, jobs core.JobSnapshot) error {
	if len(jobs) == 0 {
		_, err := fmt.Fprintln(w, view.EmptyMessage)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tSTATUS\tPRIORITY\tRETRIES\tCREATED\tRESULT")
	for _, r := range view.FormatJobs(jobs) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ShortID, r.Type, r.Status, r.Priority, r.Retries, r.Created, r.Result)
	}
	return tw.Flush()
}
