package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/nordvest/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"add_project_index", "add_project_index"},
		{"Add Project Index", "add_project_index"},
		{"add--project  index_", "add_project_index"},
		{"  leading", "leading"},
		{"æøå prosjekt", "prosjekt"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeName(tt.in))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")
	now := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

	mf, err := CreateMigration(dir, "Add plan column", "Stores plans", now)
	require.NoError(t, err)

	assert.Equal(t, "20250601083000", mf.Version)
	assert.Equal(t, filepath.Join(dir, "20250601083000_add_plan_column.up.sql"), mf.UpPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Description: Stores plans")
	assert.FileExists(t, mf.DownPath)

	t.Run("refuses to overwrite", func(t *testing.T) {
		_, err := CreateMigration(dir, "Add plan column", "", now)
		assert.Error(t, err)
	})

	t.Run("rejects empty names", func(t *testing.T) {
		_, err := CreateMigration(dir, "???", "", now)
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.up.sql":   {},
		"002_b.down.sql": {},
		"001_a.up.sql":   {},
		"001_a.down.sql": {},
		"README.md":      {},
	}
	got, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a", "002_b"}, got)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, base := range ups {
		_, err := migrations.FS.Open(base + ".down.sql")
		assert.NoError(t, err, "missing down migration for %s", base)
	}
}

func TestPartition(t *testing.T) {
	names := []string{
		"20250301120000_create_projects",
		"20250301120100_create_conversations",
		"20250301120200_create_advice",
		"draft_without_version",
	}

	t.Run("nothing applied", func(t *testing.T) {
		applied, pending := partition(names, 0)
		assert.Empty(t, applied)
		assert.Len(t, pending, 4)
	})

	t.Run("part way", func(t *testing.T) {
		applied, pending := partition(names, 20250301120100)
		assert.Equal(t, names[:2], applied)
		assert.Equal(t, names[2:], pending)
	})
}

func TestVersionOf(t *testing.T) {
	v, ok := versionOf("20250301120300_create_analytics_events")
	assert.True(t, ok)
	assert.Equal(t, uint64(20250301120300), v)

	_, ok = versionOf("notes")
	assert.False(t, ok)
}
