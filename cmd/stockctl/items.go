package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/restaurant/storage-tracker/internal/core/service"
)

func newItemsCmd(root *rootOptions) *cobra.Command {
	var f service.ItemFilter

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List stored items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := root.load(cmd.Context())
			if err != nil {
				return err
			}
			now := root.now()
			items := service.FilterItems(snap.Items, f)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Name", "Category", "Quantity", "Location", "Expires", "Added by"})
			for _, it := range items {
				expires := it.ExpirationDate
				if service.IsExpiringSoon(it, now) {
					expires += " (soon)"
				}
				t.AppendRow(table.Row{it.Name, it.Category, it.Quantity.String() + " " + string(it.Unit), it.Location, expires, it.AddedBy})
			}
			t.AppendFooter(table.Row{"", "", "", "", "Showing", formatShown(len(items), len(snap.Items))})
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Search, "search", "", "case-insensitive name filter")
	cmd.Flags().StringVar(&f.Category, "category", service.FilterAll, "category or all")
	return cmd
}
