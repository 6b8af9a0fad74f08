package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/xhsnote/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates the images table in memory", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(sqlite.MemoryPath)
		require.NoError(t, db.Open())
		defer db.Close()

		var count int
		err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM images").Scan(&count)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("records the schema version", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(sqlite.MemoryPath)
		require.NoError(t, db.Open())
		defer db.Close()

		var version int
		err := db.QueryRowContext(context.Background(), "PRAGMA user_version").Scan(&version)
		require.NoError(t, err)
		assert.Equal(t, 1, version)
	})

	t.Run("fails for an unwritable path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/dir/images.db")
		require.Error(t, db.Open())
	})

	t.Run("uses WAL for database files", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(filepath.Join(t.TempDir(), "images.db"))
		require.NoError(t, db.Open())
		defer db.Close()

		var mode string
		err := db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&mode)
		require.NoError(t, err)
		assert.Equal(t, "wal", mode)
	})

	t.Run("keeps stored rows across reopen", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "images.db")
		ctx := context.Background()

		first := sqlite.NewDB(path)
		require.NoError(t, first.Open())
		_, err := first.ExecContext(ctx,
			`INSERT INTO images (key, id, data, checksum, created_at) VALUES ('n/1.jpg', 'x', x'00', 'c', 'now')`)
		require.NoError(t, err)
		require.NoError(t, first.Close())

		second := sqlite.NewDB(path)
		require.NoError(t, second.Open())
		defer second.Close()

		var count int
		require.NoError(t, second.QueryRowContext(ctx, "SELECT COUNT(*) FROM images").Scan(&count))
		assert.Equal(t, 1, count)
	})
}
