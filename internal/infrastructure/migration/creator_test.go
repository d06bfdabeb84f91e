package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"add marketplace listings", "add_marketplace_listings"},
		{"Add-Supply-Boxes", "add_supply_boxes"},
		{"price_records", "price_records"},
		{"drop  stale   dictionaries", "drop_stale_dictionaries"},
		{"v2 orders!", "v2_orders"},
		{"trailing ", "trailing"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), "name %q", tt.in)
	}
}

func TestCreateMigrationWritesPair(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add listing sync state", "track per-listing push results")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14)
	assert.FileExists(t, mf.UpPath)
	assert.FileExists(t, mf.DownPath)
	assert.True(t, strings.HasSuffix(mf.UpPath, "_add_listing_sync_state.up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, "_add_listing_sync_state.down.sql"))

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add listing sync state")
	assert.Contains(t, string(up), "track per-listing push results")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(rollback)")
}

func TestCreateMigrationMakesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db", "migrations")

	_, err := CreateMigration(dir, "init schema", "")
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"20260101000000_init_schema.up.sql",
		"20260101000000_init_schema.down.sql",
		"20260201000000_add_supplies.up.sql",
		"20260201000000_add_supplies.down.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- sql\n"), 0644))
	}

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20260101000000_init_schema",
		"20260201000000_add_supplies",
	}, names)
}

func TestListMigrationsSkipsStrays(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_init_schema.up.sql"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.down.sql.bak"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0755))

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260101000000_init_schema"}, names)
}

func TestListMigrationsMissingDirectory(t *testing.T) {
	names, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
