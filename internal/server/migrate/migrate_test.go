package migrate

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const ledger = "schema_migrations"

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"1_init_up.sql":      {Data: []byte(`CREATE TABLE pages (id INTEGER PRIMARY KEY, title TEXT)`)},
		"1_init_down.sql":    {Data: []byte(`DROP TABLE pages`)},
		"2_folders_up.sql":   {Data: []byte(`CREATE TABLE folders (id INTEGER PRIMARY KEY, name TEXT)`)},
		"2_folders_down.sql": {Data: []byte(`DROP TABLE folders`)},
	}
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestRead(t *testing.T) {
	migrations, err := Read(testFS())
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, int64(1), migrations[0].Index)
	assert.Equal(t, "init", migrations[0].Name)
	assert.Contains(t, migrations[0].Up, "CREATE TABLE pages")
	assert.Contains(t, migrations[0].Down, "DROP TABLE pages")
	assert.Equal(t, int64(2), migrations[1].Index)
	assert.Equal(t, "folders", migrations[1].Name)
}

func TestReadMissingDownPair(t *testing.T) {
	fsys := fstest.MapFS{
		"1_init_up.sql": {Data: []byte(`CREATE TABLE pages (id INTEGER PRIMARY KEY)`)},
	}
	_, err := Read(fsys)
	assert.Error(t, err)
}

func TestReadIgnoresStrayFiles(t *testing.T) {
	fsys := testFS()
	fsys["README.md"] = &fstest.MapFile{Data: []byte("notes")}
	fsys["helper.sql"] = &fstest.MapFile{Data: []byte("SELECT 1")}

	migrations, err := Read(fsys)
	require.NoError(t, err)
	assert.Len(t, migrations, 2)
}

func TestRunAppliesAll(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, Run(ctx, db, testFS(), ledger))

	// Both tables exist and both steps are in the ledger.
	assert.Equal(t, 0, countRows(t, db, "pages"))
	assert.Equal(t, 0, countRows(t, db, "folders"))
	assert.Equal(t, 2, countRows(t, db, ledger))
}

func TestRunIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, Run(ctx, db, testFS(), ledger))
	require.NoError(t, Run(ctx, db, testFS(), ledger))

	assert.Equal(t, 2, countRows(t, db, ledger))
}

func TestRunPicksUpNewMigrations(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"1_init_up.sql":   testFS()["1_init_up.sql"],
		"1_init_down.sql": testFS()["1_init_down.sql"],
	}
	require.NoError(t, Run(ctx, db, fsys, ledger))
	require.Equal(t, 1, countRows(t, db, ledger))

	require.NoError(t, Run(ctx, db, testFS(), ledger))
	assert.Equal(t, 2, countRows(t, db, ledger))
	assert.Equal(t, 0, countRows(t, db, "folders"))
}

func TestRunFailedMigrationNotRecorded(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	fsys := testFS()
	fsys["3_broken_up.sql"] = &fstest.MapFile{Data: []byte(`THIS IS NOT SQL`)}
	fsys["3_broken_down.sql"] = &fstest.MapFile{Data: []byte(`SELECT 1`)}

	require.Error(t, Run(ctx, db, fsys, ledger))

	// The first two steps landed; the broken one left no ledger row.
	assert.Equal(t, 2, countRows(t, db, ledger))
}

func TestDownRollsBackLastStep(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, Run(ctx, db, testFS(), ledger))
	require.NoError(t, Down(ctx, db, testFS(), ledger))

	assert.Equal(t, 1, countRows(t, db, ledger))
	assert.Equal(t, 0, countRows(t, db, "pages"))
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM folders`).Scan(&n)
	assert.Error(t, err)
}

func TestDownOnEmptyLedger(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(`CREATE TABLE ` + ledger + ` (id BIGINT PRIMARY KEY, name TEXT NOT NULL, created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`)
	require.NoError(t, err)

	assert.NoError(t, Down(ctx, db, testFS(), ledger))
}
