package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itemsJSON = `[
  {"id":"1","name":"Fresh Tomatoes","category":"produce","quantity":25,"unit":"lbs","location":"Walk-in Cooler A","expirationDate":"2025-01-12","addedBy":"Jane Employee","addedAt":"2025-01-05T10:30:00Z","lastUpdated":"2025-01-05T10:30:00Z"},
  {"id":"2","name":"Ground Beef","category":"meat","quantity":15,"unit":"lbs","location":"Freezer B","expirationDate":"2025-01-15","addedBy":"John Manager","addedAt":"2025-01-04T14:20:00Z","lastUpdated":"2025-01-04T14:20:00Z"}
]`

const activitiesJSON = `[
  {"id":"a2","action":"updated","itemName":"Ground Beef","details":"Took 5 lbs (20 → 15)","employeeName":"John Manager","timestamp":"2025-01-10T09:00:00Z"},
  {"id":"a1","action":"added","itemName":"Fresh Tomatoes","details":"Added 25 lbs to Walk-in Cooler A","employeeName":"Jane Employee","timestamp":"2025-01-05T10:30:00Z"}
]`

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--dir", dir))
	err := cmd.Execute()
	return out.String(), err
}

func seedDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "restaurant-storage-items.json"), []byte(itemsJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "restaurant-storage-activities.json"), []byte(activitiesJSON), 0o644))
	return dir
}

func TestItemsCommand_FiltersByCategory(t *testing.T) {
	out, err := run(t, seedDir(t), "items", "--category", "meat")
	require.NoError(t, err)

	assert.Contains(t, out, "Ground Beef")
	assert.NotContains(t, out, "Fresh Tomatoes")
	assert.Contains(t, out, "1 of 2")
}

func TestActivitiesCommand_FiltersByAction(t *testing.T) {
	out, err := run(t, seedDir(t), "activities", "--action", "added")
	require.NoError(t, err)

	assert.Contains(t, out, "Added 25 lbs to Walk-in Cooler A")
	assert.NotContains(t, out, "John Manager")
}

func TestActivitiesCommand_RejectsUnknownRange(t *testing.T) {
	_, err := run(t, seedDir(t), "activities", "--range", "year")
	assert.Error(t, err)
}

func TestStatsCommand_EmptyDirectory(t *testing.T) {
	out, err := run(t, t.TempDir(), "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total items")
}

func TestRootOptions_LoadMissingKeys(t *testing.T) {
	opts := &rootOptions{dir: t.TempDir(), now: time.Now}
	snap, err := opts.load(t.Context())
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	assert.Empty(t, snap.Activities)
}

func TestStatsCommand_DoesNotCreateDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")

	out, err := run(t, dir, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total items")

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "stockctl created %s", dir)
}
