package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/restaurant/storage-tracker/internal/core/domain"
	"github.com/restaurant/storage-tracker/internal/core/service"
	"github.com/restaurant/storage-tracker/internal/infrastructure/db/file"
)

type rootOptions struct {
	dir string
	now func() time.Time
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{now: time.Now}

	cmd := &cobra.Command{
		Use:          "stockctl",
		Short:        "Inspect restaurant storage data",
		Long:         "stockctl reads the items and activity log written by the server's file storage backend.",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.dir, "dir", "./data", "storage directory (STORAGE_DIR of the server)")

	cmd.AddCommand(
		newItemsCmd(opts),
		newActivitiesCmd(opts),
		newStatsCmd(opts),
	)
	return cmd
}

// load reads both collections without touching the directory. Absent keys
// and a missing directory are empty collections.
func (o *rootOptions) load(ctx context.Context) (domain.Snapshot, error) {
	kv := file.OpenKeyValueStore(o.dir)

	var snap domain.Snapshot
	if err := readKey(ctx, kv, service.ItemsKey, &snap.Items); err != nil {
		return domain.Snapshot{}, err
	}
	if err := readKey(ctx, kv, service.ActivitiesKey, &snap.Activities); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

func readKey(ctx context.Context, kv *file.KeyValueStore, key string, dst any) error {
	data, err := kv.Get(ctx, key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
