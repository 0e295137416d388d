package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/restaurant/storage-tracker/internal/core/service"
)

func newActivitiesCmd(root *rootOptions) *cobra.Command {
	var f service.ActivityFilter

	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Show the activity log, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !service.ValidRange(f.Range) {
				return fmt.Errorf("invalid --range %q: want today, week, month or all", f.Range)
			}
			snap, err := root.load(cmd.Context())
			if err != nil {
				return err
			}
			now := root.now()
			entries := service.FilterActivities(snap.Activities, f, now)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"When", "Action", "Item", "Details", "Employee"})
			for _, e := range entries {
				t.AppendRow(table.Row{service.RelativeTime(e.Timestamp, now), e.Action, e.ItemName, e.Details, e.EmployeeName})
			}
			t.AppendFooter(table.Row{"", "", "", "Showing", formatShown(len(entries), len(snap.Activities))})
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Search, "search", "", "matches item, employee or details")
	cmd.Flags().StringVar(&f.Action, "action", service.FilterAll, "added, updated, removed, moved or all")
	cmd.Flags().StringVar(&f.Range, "range", service.FilterAll, "today, week, month or all")
	return cmd
}

func formatShown(shown, total int) string {
	return fmt.Sprintf("%d of %d", shown, total)
}
