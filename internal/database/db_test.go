package database_test

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/plankabot/internal/database"
)

func TestExtractDBNameFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "plank.db", want: "plank.db"},
		{in: "file:plank.db", want: "plank.db"},
		{in: "file:/var/lib/plank%20bot.db?_pragma=busy_timeout(5000)", want: "/var/lib/plank bot.db"},
	}
	for _, tt := range tests {
		if got := database.ExtractDBNameFromPath(tt.in); got != tt.want {
			t.Errorf("ExtractDBNameFromPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildDSN(t *testing.T) {
	t.Parallel()

	dsn := database.BuildDSN("plank.db", 5*time.Second)
	assert.True(t, strings.HasPrefix(dsn, "plank.db?"), dsn)
	assert.Contains(t, dsn, "_txlock=immediate")
	assert.Contains(t, dsn, "busy_timeout%285000%29")

	withQuery := database.BuildDSN("file:plank.db?cache=shared", time.Second)
	assert.True(t, strings.HasPrefix(withQuery, "file:plank.db?cache=shared&"), withQuery)
}

func TestNewDBAppliesMigrationsIdempotently(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plank.db")

	db, err := database.NewDB(path, time.Second)
	require.NoError(t, err)
	database.CloseDB(db)

	// Reopening runs the migrator again with nothing to do.
	db, err = database.NewDB(path, time.Second)
	require.NoError(t, err)
	defer database.CloseDB(db)

	var tables []string
	require.NoError(t, db.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`))
	assert.Subset(t, tables, []string{"chat_messages", "plank_records", "users"})
}
