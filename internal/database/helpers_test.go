package database_test

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/edgard/plankabot/internal/database"
)

// testClock is a settable clock in UTC.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{now: t}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Today() string {
	return c.Now().Format("2006-01-02")
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "plank.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })
	return db
}

func newTestStore(t *testing.T, clk *testClock, opts ...database.StoreOption) (database.Store, *sqlx.DB) {
	t.Helper()
	db := openTestDB(t)
	return database.NewStore(db, clk, nil, opts...), db
}

func int64Ptr(v int64) *int64 {
	return &v
}
