package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/restaurant/storage-tracker/internal/core/domain"
	"github.com/restaurant/storage-tracker/internal/core/service"
)

func newStatsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize items and activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := root.load(cmd.Context())
			if err != nil {
				return err
			}
			now := root.now()
			items := service.ItemStatistics(snap.Items, now)
			acts := service.ActivityStatistics(snap.Activities, now)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Metric", "Value"})
			t.AppendRows([]table.Row{
				{"Total items", items.TotalItems},
				{"Expiring soon", items.ExpiringSoon},
				{"Categories", items.Categories},
			})
			t.AppendSeparator()
			t.AppendRows([]table.Row{
				{"Activities", acts.Total},
				{"Today", acts.Today},
				{"This week", acts.ThisWeek},
			})
			for _, a := range domain.Actions {
				t.AppendRow(table.Row{"  " + string(a), acts.ByAction[a]})
			}
			t.Render()
			return nil
		},
	}
}
